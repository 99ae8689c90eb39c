package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Blob       BlobConfig       `yaml:"blob"`
	Storage    StorageConfig    `yaml:"storage"`
	Share      ShareConfig      `yaml:"share"`
	Trash      TrashConfig      `yaml:"trash"`
	JWT        JWTConfig        `yaml:"jwt"`
	Thumbnail  ThumbnailConfig  `yaml:"thumbnail"`
	Pagination PaginationConfig `yaml:"pagination"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BlobConfig points at the S3-compatible object store holding file content.
// PublicBaseURL is the root under which uploaded blobs are reachable; for
// plain S3 this is https://<bucket>.s3.<region>.amazonaws.com.
type BlobConfig struct {
	Endpoint          string `yaml:"endpoint"`
	Region            string `yaml:"region"`
	Bucket            string `yaml:"bucket"`
	AccessKey         string `yaml:"access_key"`
	SecretKey         string `yaml:"secret_key"`
	PublicBaseURL     string `yaml:"public_base_url"`
	PresignTTLMinutes int    `yaml:"presign_ttl_minutes"`
	ForcePathStyle    bool   `yaml:"force_path_style"`
}

type StorageConfig struct {
	MaxUploadSize    int64 `yaml:"max_upload_size"`
	DefaultUserQuota int64 `yaml:"default_user_quota"`
}

type ShareConfig struct {
	BaseURL    string `yaml:"base_url"`
	TokenBytes int    `yaml:"token_bytes"`
}

type TrashConfig struct {
	Enabled         bool `yaml:"enabled"`
	RetentionDays   int  `yaml:"retention_days"`
	CleanupInterval int  `yaml:"cleanup_interval"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

type ThumbnailConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Quality int `yaml:"quality"`
}

type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var AppConfig *Config

// LoadConfig reads the YAML config at path. ${VAR} references in the file
// are expanded from the environment before parsing, so secrets can stay out
// of the file itself.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	AppConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Charset == "" {
		cfg.Database.Charset = "utf8mb4"
	}
	if cfg.Storage.MaxUploadSize == 0 {
		cfg.Storage.MaxUploadSize = 2 << 30 // 2 GiB
	}
	if cfg.Storage.DefaultUserQuota == 0 {
		cfg.Storage.DefaultUserQuota = 5 << 30 // 5 GiB
	}
	if cfg.Blob.PresignTTLMinutes == 0 {
		cfg.Blob.PresignTTLMinutes = 60
	}
	if cfg.Share.TokenBytes == 0 {
		cfg.Share.TokenBytes = 16
	}
	if cfg.Trash.RetentionDays == 0 {
		cfg.Trash.RetentionDays = 30
	}
	if cfg.Trash.CleanupInterval == 0 {
		cfg.Trash.CleanupInterval = 86400
	}
	if cfg.JWT.ExpireHours == 0 {
		cfg.JWT.ExpireHours = 24
	}
	if cfg.Thumbnail.Width == 0 {
		cfg.Thumbnail.Width = 320
	}
	if cfg.Thumbnail.Height == 0 {
		cfg.Thumbnail.Height = 320
	}
	if cfg.Thumbnail.Quality == 0 {
		cfg.Thumbnail.Quality = 80
	}
	if cfg.Pagination.DefaultPageSize == 0 {
		cfg.Pagination.DefaultPageSize = 20
	}
	if cfg.Pagination.MaxPageSize == 0 {
		cfg.Pagination.MaxPageSize = 100
	}
}
