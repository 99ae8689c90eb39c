package services

import (
	"context"
	"time"

	"github.com/sujallchaudhary/drive/config"
	"github.com/sujallchaudhary/drive/logger"
	"github.com/sujallchaudhary/drive/repositories"
	"github.com/sujallchaudhary/drive/storage"

	"gorm.io/gorm"
)

type CleanupService interface {
	PurgeExpiredTrash(ctx context.Context) (int, error)
}

type cleanupService struct {
	txManager TxManager
	users     repositories.UserRepository
	files     repositories.FileRepository
	blobs     storage.BlobStore
}

func NewCleanupService(
	txManager TxManager,
	users repositories.UserRepository,
	files repositories.FileRepository,
	blobs storage.BlobStore,
) CleanupService {
	return &cleanupService{txManager: txManager, users: users, files: files, blobs: blobs}
}

// PurgeExpiredTrash permanently deletes every trashed file whose trash entry
// is older than the configured retention window. Each file is purged
// independently so one failure does not block the rest of the sweep.
func (s *cleanupService) PurgeExpiredTrash(ctx context.Context) (int, error) {
	retention := time.Duration(config.AppConfig.Trash.RetentionDays) * 24 * time.Hour
	cutoff := time.Now().Add(-retention)

	expired, err := s.files.ListTrashedBefore(ctx, nil, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, file := range expired {
		deleteFileBlobs(ctx, s.blobs, file)

		err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
			if err := s.files.HardDeleteByIDAndUser(ctx, tx, file.ID, file.UserID); err != nil {
				return err
			}
			if !file.IsYouTube && file.Size > 0 {
				return s.users.SubStorageUsed(ctx, tx, file.UserID, file.Size)
			}
			return nil
		})
		if err != nil {
			logger.Errorf("failed to purge trashed file %d: %v", file.ID, err)
			continue
		}
		purged++
	}

	if purged > 0 {
		logger.Infof("purged %d expired trash entries", purged)
	}
	return purged, nil
}

// StartCleanupWorkers launches the background trash retention sweep. The
// loop runs until the process exits.
func StartCleanupWorkers(svc CleanupService) {
	go trashCleanupLoop(svc)
}

func trashCleanupLoop(svc CleanupService) {
	if !config.AppConfig.Trash.Enabled {
		return
	}

	interval := time.Duration(config.AppConfig.Trash.CleanupInterval) * time.Second
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := svc.PurgeExpiredTrash(context.Background()); err != nil {
			logger.Errorf("trash cleanup sweep failed: %v", err)
		}
	}
}
