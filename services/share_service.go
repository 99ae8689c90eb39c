package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sujallchaudhary/drive/config"
	"github.com/sujallchaudhary/drive/models"
	"github.com/sujallchaudhary/drive/repositories"

	"gorm.io/gorm"
)

type ShareOutput struct {
	ShareURL   string `json:"share_url"`
	ShareToken string `json:"share_token"`
}

// PublicFileView is the redacted projection handed to unauthenticated
// readers: no owner id, no internal blob name.
type PublicFileView struct {
	Name        string              `json:"name"`
	Size        int64               `json:"size"`
	MimeType    string              `json:"mime_type"`
	FileType    string              `json:"file_type"`
	FileIcon    string              `json:"file_icon"`
	BlobURL     string              `json:"blob_url"`
	ThumbURL    string              `json:"thumb_url,omitempty"`
	Description string              `json:"description"`
	IsYouTube   bool                `json:"is_youtube"`
	YouTube     *models.YouTubeMeta `json:"youtube,omitempty"`
	ShareExpiry *time.Time          `json:"share_expiry,omitempty"`
	UploadedAt  time.Time           `json:"uploaded_at"`
}

type ShareService interface {
	// EnsureShareToken returns the file's share link, minting a token on
	// first use. Idempotent for an already-shared file.
	EnsureShareToken(ctx context.Context, userID uint, fileID uint) (ShareOutput, error)
	RevokeShare(ctx context.Context, userID uint, fileID uint) error
	// ResolveShare is the single unauthenticated read path.
	ResolveShare(ctx context.Context, token string) (PublicFileView, error)
}

type shareService struct {
	files repositories.FileRepository
}

func NewShareService(files repositories.FileRepository) ShareService {
	return &shareService{files: files}
}

func generateShareToken() (string, error) {
	buf := make([]byte, config.AppConfig.Share.TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func shareURL(token string) string {
	return strings.TrimRight(config.AppConfig.Share.BaseURL, "/") + "/share/" + token
}

func (s *shareService) EnsureShareToken(ctx context.Context, userID uint, fileID uint) (ShareOutput, error) {
	file, err := s.files.GetLiveByIDAndUser(ctx, nil, fileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShareOutput{}, newAppError(http.StatusNotFound, "file not found", nil)
		}
		return ShareOutput{}, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	if file.ShareToken != nil && *file.ShareToken != "" {
		return ShareOutput{ShareURL: shareURL(*file.ShareToken), ShareToken: *file.ShareToken}, nil
	}

	token, err := generateShareToken()
	if err != nil {
		return ShareOutput{}, newAppError(http.StatusInternalServerError, "failed to generate share token", err)
	}

	updates := map[string]interface{}{"share_token": token, "is_public": true}
	if err := s.files.UpdateByIDAndUser(ctx, nil, fileID, userID, updates); err != nil {
		return ShareOutput{}, newAppError(http.StatusInternalServerError, "failed to share file", err)
	}

	return ShareOutput{ShareURL: shareURL(token), ShareToken: token}, nil
}

func (s *shareService) RevokeShare(ctx context.Context, userID uint, fileID uint) error {
	file, err := s.files.GetLiveByIDAndUser(ctx, nil, fileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newAppError(http.StatusNotFound, "file not found", nil)
		}
		return newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	// Revoking an unshared file is a no-op success.
	if file.ShareToken == nil && !file.IsPublic {
		return nil
	}

	updates := map[string]interface{}{"share_token": nil, "is_public": false}
	if err := s.files.UpdateByIDAndUser(ctx, nil, fileID, userID, updates); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to revoke share", err)
	}
	return nil
}

func (s *shareService) ResolveShare(ctx context.Context, token string) (PublicFileView, error) {
	if token == "" {
		return PublicFileView{}, newAppError(http.StatusNotFound, "share not found", nil)
	}

	file, err := s.files.GetByShareToken(ctx, nil, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PublicFileView{}, newAppError(http.StatusNotFound, "share not found", nil)
		}
		return PublicFileView{}, newAppError(http.StatusInternalServerError, "failed to resolve share", err)
	}

	view := newFileView(file)
	return PublicFileView{
		Name:        view.Name,
		Size:        view.Size,
		MimeType:    view.MimeType,
		FileType:    view.FileType,
		FileIcon:    view.FileIcon,
		BlobURL:     view.BlobURL,
		ThumbURL:    view.ThumbURL,
		Description: view.Description,
		IsYouTube:   view.IsYouTube,
		YouTube:     view.YouTube,
		ShareExpiry: view.ShareExpiry,
		UploadedAt:  view.UploadedAt,
	}, nil
}
