package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sujallchaudhary/drive/config"
	"github.com/sujallchaudhary/drive/logger"
	"github.com/sujallchaudhary/drive/models"
	"github.com/sujallchaudhary/drive/repositories"
	"github.com/sujallchaudhary/drive/storage"

	"gorm.io/gorm"
)

type SASTokenInput struct {
	FileName string
	FileSize int64
	MimeType string
}

type SASTokenOutput struct {
	SASURL       string `json:"sas_url"`
	BlobName     string `json:"blob_name"`
	ContainerURL string `json:"container_url"`
}

type RegisterUploadInput struct {
	FileName     string
	OriginalName string
	FileSize     int64
	MimeType     string
	BlobName     string
	BlobURL      string
}

type UploadService interface {
	// UploadFile is the server-proxied path: the whole body is buffered,
	// validated and pushed to blob storage by the server.
	UploadFile(ctx context.Context, userID uint, file multipart.File, header *multipart.FileHeader) (FileView, error)
	// IssueUploadURL hands the client a time-boxed presigned PUT URL so
	// bytes bypass the application server.
	IssueUploadURL(ctx context.Context, userID uint, in SASTokenInput) (SASTokenOutput, error)
	// RegisterUpload links a completed direct upload to a file record
	// after verifying the blob actually landed.
	RegisterUpload(ctx context.Context, userID uint, in RegisterUploadInput) (FileView, error)
}

type uploadService struct {
	txManager TxManager
	users     repositories.UserRepository
	files     repositories.FileRepository
	pending   repositories.PendingUploadRepository
	blobs     storage.BlobStore
}

func NewUploadService(
	txManager TxManager,
	users repositories.UserRepository,
	files repositories.FileRepository,
	pending repositories.PendingUploadRepository,
	blobs storage.BlobStore,
) UploadService {
	return &uploadService{txManager: txManager, users: users, files: files, pending: pending, blobs: blobs}
}

func (s *uploadService) checkQuota(ctx context.Context, userID uint, size int64) error {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to query user", err)
	}
	if user.StorageUsed+size > user.StorageLimit {
		return newAppErrorWithData(http.StatusBadRequest, "storage quota exceeded", map[string]interface{}{
			"storage_limit":   user.StorageLimit,
			"storage_used":    user.StorageUsed,
			"available_space": user.StorageLimit - user.StorageUsed,
			"required_space":  size,
		}, nil)
	}
	return nil
}

func (s *uploadService) UploadFile(ctx context.Context, userID uint, file multipart.File, header *multipart.FileHeader) (FileView, error) {
	if header.Size > config.AppConfig.Storage.MaxUploadSize {
		return FileView{}, newAppError(http.StatusBadRequest, "file exceeds the maximum upload size", nil)
	}
	if err := s.checkQuota(ctx, userID, header.Size); err != nil {
		return FileView{}, err
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to read upload", err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(content)
	}

	blobName := newBlobName(header.Filename)
	blobURL, err := s.blobs.Upload(ctx, content, blobName, mimeType)
	if err != nil {
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to store file", err)
	}

	var thumbName, thumbURL string
	if IsImageMime(mimeType) {
		if thumb, thumbErr := GenerateThumbnail(content); thumbErr == nil {
			candidate := blobName + "_thumb.jpg"
			if url, upErr := s.blobs.Upload(ctx, thumb, candidate, "image/jpeg"); upErr == nil {
				thumbName, thumbURL = candidate, url
			} else {
				logger.Warnf("failed to store thumbnail for %s: %v", blobName, upErr)
			}
		}
	}

	record := models.File{
		UserID:       userID,
		Name:         header.Filename,
		OriginalName: header.Filename,
		Size:         header.Size,
		MimeType:     mimeType,
		FileType:     ClassifyMimeType(mimeType),
		BlobName:     blobName,
		BlobURL:      blobURL,
		ThumbName:    thumbName,
		ThumbURL:     thumbURL,
		Tags:         "[]",
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.files.Create(ctx, tx, &record); err != nil {
			return err
		}
		return s.users.AddStorageUsed(ctx, tx, userID, header.Size)
	})
	if err != nil {
		deleteFileBlobs(ctx, s.blobs, record)
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to save file record", err)
	}

	return newFileView(record), nil
}

func (s *uploadService) IssueUploadURL(ctx context.Context, userID uint, in SASTokenInput) (SASTokenOutput, error) {
	if in.FileName == "" || in.FileSize <= 0 || in.MimeType == "" {
		return SASTokenOutput{}, newAppError(http.StatusBadRequest, "fileName, fileSize and mimeType are required", nil)
	}

	// Advisory admission check: a second credential can be issued before
	// the first registration lands, which is accepted overcommit.
	if err := s.checkQuota(ctx, userID, in.FileSize); err != nil {
		return SASTokenOutput{}, err
	}

	ttl := time.Duration(config.AppConfig.Blob.PresignTTLMinutes) * time.Minute
	blobName := newBlobName(in.FileName)

	sasURL, err := s.blobs.PresignUpload(ctx, blobName, ttl)
	if err != nil {
		return SASTokenOutput{}, newAppError(http.StatusInternalServerError, "failed to issue upload credential", err)
	}

	pending := repositories.PendingUpload{
		UserID:   userID,
		FileName: in.FileName,
		FileSize: in.FileSize,
		MimeType: in.MimeType,
	}
	if err := s.pending.Save(ctx, blobName, pending, ttl); err != nil {
		logger.Warnf("failed to track pending upload %s: %v", blobName, err)
	}

	return SASTokenOutput{
		SASURL:       sasURL,
		BlobName:     blobName,
		ContainerURL: s.blobs.ContainerURL(),
	}, nil
}

func (s *uploadService) RegisterUpload(ctx context.Context, userID uint, in RegisterUploadInput) (FileView, error) {
	if in.FileName == "" || in.OriginalName == "" || in.FileSize <= 0 ||
		in.MimeType == "" || in.BlobName == "" || in.BlobURL == "" {
		return FileView{}, newAppError(http.StatusBadRequest, "missing required upload fields", nil)
	}

	exists, err := s.blobs.Exists(ctx, in.BlobName)
	if err != nil {
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to verify upload", err)
	}
	if !exists {
		return FileView{}, newAppError(http.StatusBadRequest, "upload verification failed: blob not found", nil)
	}

	record := models.File{
		UserID:       userID,
		Name:         in.FileName,
		OriginalName: in.OriginalName,
		Size:         in.FileSize,
		MimeType:     in.MimeType,
		FileType:     ClassifyMimeType(in.MimeType),
		BlobName:     in.BlobName,
		BlobURL:      in.BlobURL,
		Tags:         "[]",
	}

	// Quota is not re-checked here: admission happened at credential
	// issuance and the blob already exists either way.
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.files.Create(ctx, tx, &record); err != nil {
			return err
		}
		return s.users.AddStorageUsed(ctx, tx, userID, in.FileSize)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return FileView{}, newAppError(http.StatusConflict, "blob already registered", err)
		}
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to save file record", err)
	}

	if err := s.pending.Delete(ctx, in.BlobName); err != nil {
		logger.Debugf("failed to clear pending upload %s: %v", in.BlobName, err)
	}

	return newFileView(record), nil
}
