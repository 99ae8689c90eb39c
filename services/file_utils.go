package services

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/sujallchaudhary/drive/models"

	"github.com/google/uuid"
)

// sanitizeFilename keeps only the final path segment, treating both slash
// flavors as separators since client uploads carry Windows paths too.
func sanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = filepath.Base(name)
	return strings.ReplaceAll(name, "..", "_")
}

// newBlobName builds a collision-free object key for an upload.
func newBlobName(fileName string) string {
	return uuid.New().String() + "_" + sanitizeFilename(fileName)
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	return tags
}

// FileView is the owner-facing projection of a file record.
type FileView struct {
	ID           uint                `json:"id"`
	Name         string              `json:"name"`
	OriginalName string              `json:"original_name"`
	Size         int64               `json:"size"`
	MimeType     string              `json:"mime_type"`
	FileType     string              `json:"file_type"`
	FileIcon     string              `json:"file_icon"`
	BlobURL      string              `json:"blob_url"`
	ThumbURL     string              `json:"thumb_url,omitempty"`
	IsStarred    bool                `json:"is_starred"`
	Description  string              `json:"description"`
	Tags         []string            `json:"tags"`
	IsPublic     bool                `json:"is_public"`
	ShareExpiry  *time.Time          `json:"share_expiry,omitempty"`
	IsYouTube    bool                `json:"is_youtube"`
	YouTube      *models.YouTubeMeta `json:"youtube,omitempty"`
	UploadedAt   time.Time           `json:"uploaded_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	DeletedAt    *time.Time          `json:"deleted_at,omitempty"`
}

func newFileView(f models.File) FileView {
	view := FileView{
		ID:           f.ID,
		Name:         f.Name,
		OriginalName: f.OriginalName,
		Size:         f.Size,
		MimeType:     f.MimeType,
		FileType:     f.FileType,
		FileIcon:     FileTypeIcon(f.FileType),
		BlobURL:      f.BlobURL,
		ThumbURL:     f.ThumbURL,
		IsStarred:    f.IsStarred,
		Description:  f.Description,
		Tags:         decodeTags(f.Tags),
		IsPublic:     f.IsPublic,
		ShareExpiry:  f.ShareExpiry,
		IsYouTube:    f.IsYouTube,
		UploadedAt:   f.UploadedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	if f.IsYouTube && f.YouTubeData != "" {
		var meta models.YouTubeMeta
		if err := json.Unmarshal([]byte(f.YouTubeData), &meta); err == nil {
			view.YouTube = &meta
		}
	}
	if f.DeletedAt.Valid {
		deletedAt := f.DeletedAt.Time
		view.DeletedAt = &deletedAt
	}
	return view
}

func newFileViews(files []models.File) []FileView {
	views := make([]FileView, 0, len(files))
	for _, f := range files {
		views = append(views, newFileView(f))
	}
	return views
}
