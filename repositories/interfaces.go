package repositories

import (
	"context"
	"time"

	"github.com/sujallchaudhary/drive/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	CountByEmail(ctx context.Context, email string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uint) (models.User, error)
	AddStorageUsed(ctx context.Context, tx *gorm.DB, userID uint, delta int64) error
	SubStorageUsed(ctx context.Context, tx *gorm.DB, userID uint, delta int64) error
}

type ListFilesInput struct {
	UserID uint
	Filter string
	Search string
	Offset int
	Limit  int
}

type FileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, file *models.File) error
	CountByQuery(ctx context.Context, tx *gorm.DB, in ListFilesInput) (int64, error)
	ListByQuery(ctx context.Context, tx *gorm.DB, in ListFilesInput) ([]models.File, error)
	// GetLiveByIDAndUser finds a non-trashed file owned by userID.
	GetLiveByIDAndUser(ctx context.Context, tx *gorm.DB, fileID uint, userID uint) (models.File, error)
	// GetTrashedByIDAndUser finds a file currently in the trash.
	GetTrashedByIDAndUser(ctx context.Context, tx *gorm.DB, fileID uint, userID uint) (models.File, error)
	UpdateByIDAndUser(ctx context.Context, tx *gorm.DB, fileID uint, userID uint, updates map[string]interface{}) error
	SoftDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, fileID uint, userID uint) error
	RestoreByIDAndUser(ctx context.Context, tx *gorm.DB, fileID uint, userID uint) error
	HardDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, fileID uint, userID uint) error
	GetByShareToken(ctx context.Context, tx *gorm.DB, token string) (models.File, error)
	CountLiveByUserAndBlobURL(ctx context.Context, tx *gorm.DB, userID uint, blobURL string) (int64, error)
	ListTrashedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]models.File, error)
}

// PendingUpload records a presigned upload credential that was issued but
// whose registration has not arrived yet. Entries expire alongside the
// credential.
type PendingUpload struct {
	UserID   uint   `json:"user_id"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

type PendingUploadRepository interface {
	Save(ctx context.Context, blobName string, pending PendingUpload, ttl time.Duration) error
	Get(ctx context.Context, blobName string) (PendingUpload, bool, error)
	Delete(ctx context.Context, blobName string) error
}

type Container struct {
	TxManager      TxManager
	Users          UserRepository
	Files          FileRepository
	PendingUploads PendingUploadRepository
}
