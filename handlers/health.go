package handlers

import (
	"net/http"

	"github.com/sujallchaudhary/drive/database"
	"github.com/sujallchaudhary/drive/utils"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	sqlDB, err := database.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		utils.Error(c, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	utils.Success(c, gin.H{
		"status":  "ok",
		"service": "drive",
	})
}
