package models

import (
	"time"

	"gorm.io/gorm"
)

// File is one entry in a user's drive. Most rows point at a blob in object
// storage; rows with IsYouTube set are external references whose BlobURL is
// the video/playlist URL and whose BlobName is a synthetic identifier.
// A file is in the trash iff DeletedAt is set.
type File struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	OriginalName string `gorm:"type:varchar(255);not null" json:"original_name"`
	Size         int64  `gorm:"not null;default:0" json:"size"`
	MimeType     string `gorm:"type:varchar(100)" json:"mime_type"`
	FileType     string `gorm:"type:varchar(20);index" json:"file_type"`

	BlobName  string `gorm:"type:varchar(512);uniqueIndex;not null" json:"-"`
	BlobURL   string `gorm:"type:varchar(1000)" json:"blob_url"`
	ThumbName string `gorm:"type:varchar(512)" json:"-"`
	ThumbURL  string `gorm:"type:varchar(1000)" json:"thumb_url,omitempty"`

	IsStarred   bool   `gorm:"default:false" json:"is_starred"`
	Description string `gorm:"type:varchar(1000)" json:"description"`
	Tags        string `gorm:"type:json" json:"-"`

	IsPublic    bool       `gorm:"default:false" json:"is_public"`
	ShareToken  *string    `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	ShareExpiry *time.Time `json:"share_expiry,omitempty"`

	IsYouTube   bool   `gorm:"default:false" json:"is_youtube"`
	YouTubeData string `gorm:"type:json" json:"-"`

	UploadedAt time.Time      `gorm:"index;autoCreateTime" json:"uploaded_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// YouTubeMeta is the payload stored in File.YouTubeData for external
// references.
type YouTubeMeta struct {
	Type       string `json:"type"` // video or playlist
	VideoID    string `json:"video_id,omitempty"`
	PlaylistID string `json:"playlist_id,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
}
