package main

import (
	"context"
	"fmt"

	"github.com/sujallchaudhary/drive/config"
	"github.com/sujallchaudhary/drive/database"
	"github.com/sujallchaudhary/drive/handlers"
	"github.com/sujallchaudhary/drive/logger"
	"github.com/sujallchaudhary/drive/middleware"
	"github.com/sujallchaudhary/drive/models"
	"github.com/sujallchaudhary/drive/repositories"
	"github.com/sujallchaudhary/drive/services"
	"github.com/sujallchaudhary/drive/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; config falls back to the process environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatalf("load config failed: %v", err)
	}
	logger.SetLevel(cfg.Log.Level)
	logger.Infof("starting drive service")

	if err := database.InitMySQL(&cfg.Database); err != nil {
		logger.Fatalf("init mysql failed: %v", err)
	}

	if err := database.DB.AutoMigrate(&models.User{}, &models.File{}); err != nil {
		logger.Fatalf("database migration failed: %v", err)
	}
	logger.Infof("database migration completed")

	if err := database.InitRedis(&cfg.Redis); err != nil {
		logger.Fatalf("init redis failed: %v", err)
	}

	blobStore, err := storage.NewS3BlobStore(&cfg.Blob)
	if err != nil {
		logger.Fatalf("init blob store failed: %v", err)
	}
	if err := blobStore.EnsureContainer(context.Background()); err != nil {
		logger.Fatalf("ensure blob container failed: %v", err)
	}

	repoContainer := repositories.NewGormRepositories(database.DB, database.RedisClient).BuildContainer()
	serviceContainer := services.NewContainer(&repoContainer, blobStore)
	handlers.SetServices(serviceContainer)

	services.StartCleanupWorkers(serviceContainer.Cleanup)
	logger.Infof("cleanup workers started")

	r := gin.Default()
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(corsConfig(cfg)))
	setupRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("server listening on http://%s", addr)
	if err := r.Run(addr); err != nil {
		logger.Errorf("server start failed: %v", err)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.Server.AllowedOrigins
	} else {
		c.AllowAllOrigins = true
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	return c
}

func setupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.GET("/health", handlers.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// Share resolution is the single unauthenticated read path.
	api.GET("/share/:token", handlers.ResolveShare)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", handlers.GetProfile)
		protected.GET("/user/storage", handlers.GetStorageUsage)

		protected.POST("/upload", handlers.UploadFile)
		protected.POST("/upload/sas-token", handlers.GetSASToken)
		protected.POST("/upload/register", handlers.RegisterUpload)

		protected.GET("/files", handlers.ListFiles)
		protected.GET("/files/trash", handlers.ListTrash)
		protected.PATCH("/files/:id", handlers.UpdateFileMeta)
		protected.PATCH("/files/:id/rename", handlers.RenameFile)
		protected.POST("/files/:id/star", handlers.ToggleStar)
		protected.DELETE("/files/:id", handlers.DeleteFile)
		protected.POST("/files/:id/restore", handlers.RestoreFile)
		protected.DELETE("/files/:id/permanent-delete", handlers.PermanentDeleteFile)
		protected.POST("/files/:id/share", handlers.ShareFile)
		protected.DELETE("/files/:id/share", handlers.RevokeShare)

		protected.POST("/youtube", handlers.AddYouTube)
	}
}
