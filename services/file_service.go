package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/sujallchaudhary/drive/config"
	"github.com/sujallchaudhary/drive/logger"
	"github.com/sujallchaudhary/drive/models"
	"github.com/sujallchaudhary/drive/repositories"
	"github.com/sujallchaudhary/drive/storage"
	"github.com/sujallchaudhary/drive/utils"

	"gorm.io/gorm"
)

type FileListOutput struct {
	Files      []FileView           `json:"files"`
	Pagination utils.PaginationData `json:"pagination"`
}

type TrashListOutput struct {
	Files []FileView `json:"files"`
	Count int64      `json:"count"`
}

type UpdateFileMetaInput struct {
	Description *string
	Tags        []string
	HasTags     bool
}

type FileService interface {
	ListFiles(ctx context.Context, userID uint, filter string, search string, page int, limit int) (FileListOutput, error)
	ListTrash(ctx context.Context, userID uint) (TrashListOutput, error)
	Rename(ctx context.Context, userID uint, fileID uint, newName string) (FileView, error)
	ToggleStar(ctx context.Context, userID uint, fileID uint) (bool, error)
	UpdateMeta(ctx context.Context, userID uint, fileID uint, in UpdateFileMetaInput) (FileView, error)
	SoftDelete(ctx context.Context, userID uint, fileID uint) error
	Restore(ctx context.Context, userID uint, fileID uint) error
	PermanentDelete(ctx context.Context, userID uint, fileID uint) error
}

var allowedFilters = map[string]bool{
	"all": true, "starred": true, "recent": true, "trash": true,
	"images": true, "videos": true, "pdfs": true, "docs": true,
}

type fileService struct {
	txManager TxManager
	users     repositories.UserRepository
	files     repositories.FileRepository
	blobs     storage.BlobStore
}

func NewFileService(
	txManager TxManager,
	users repositories.UserRepository,
	files repositories.FileRepository,
	blobs storage.BlobStore,
) FileService {
	return &fileService{txManager: txManager, users: users, files: files, blobs: blobs}
}

func (s *fileService) ListFiles(ctx context.Context, userID uint, filter string, search string, page int, limit int) (FileListOutput, error) {
	cfg := config.AppConfig.Pagination
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > cfg.MaxPageSize {
		limit = cfg.DefaultPageSize
	}
	if !allowedFilters[filter] {
		filter = "all"
	}

	in := repositories.ListFilesInput{
		UserID: userID,
		Filter: filter,
		Search: search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	}

	total, err := s.files.CountByQuery(ctx, nil, in)
	if err != nil {
		return FileListOutput{}, newAppError(http.StatusInternalServerError, "failed to count files", err)
	}

	list, err := s.files.ListByQuery(ctx, nil, in)
	if err != nil {
		return FileListOutput{}, newAppError(http.StatusInternalServerError, "failed to list files", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return FileListOutput{
		Files: newFileViews(list),
		Pagination: utils.PaginationData{
			Page:       page,
			PageSize:   limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    page < totalPages,
		},
	}, nil
}

func (s *fileService) ListTrash(ctx context.Context, userID uint) (TrashListOutput, error) {
	// The trash view is not paginated, so files must stay in step with
	// count. Limit -1 clears the limit clause.
	in := repositories.ListFilesInput{
		UserID: userID,
		Filter: "trash",
		Offset: 0,
		Limit:  -1,
	}

	total, err := s.files.CountByQuery(ctx, nil, in)
	if err != nil {
		return TrashListOutput{}, newAppError(http.StatusInternalServerError, "failed to count trash", err)
	}
	list, err := s.files.ListByQuery(ctx, nil, in)
	if err != nil {
		return TrashListOutput{}, newAppError(http.StatusInternalServerError, "failed to list trash", err)
	}

	return TrashListOutput{Files: newFileViews(list), Count: total}, nil
}

func (s *fileService) Rename(ctx context.Context, userID uint, fileID uint, newName string) (FileView, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return FileView{}, newAppError(http.StatusBadRequest, "file name cannot be empty", nil)
	}

	file, err := s.files.GetLiveByIDAndUser(ctx, nil, fileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FileView{}, newAppError(http.StatusNotFound, "file not found", nil)
		}
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	if err := s.files.UpdateByIDAndUser(ctx, nil, fileID, userID, map[string]interface{}{"name": newName}); err != nil {
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to rename file", err)
	}

	file.Name = newName
	return newFileView(file), nil
}

func (s *fileService) ToggleStar(ctx context.Context, userID uint, fileID uint) (bool, error) {
	file, err := s.files.GetLiveByIDAndUser(ctx, nil, fileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, newAppError(http.StatusNotFound, "file not found", nil)
		}
		return false, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	starred := !file.IsStarred
	if err := s.files.UpdateByIDAndUser(ctx, nil, fileID, userID, map[string]interface{}{"is_starred": starred}); err != nil {
		return false, newAppError(http.StatusInternalServerError, "failed to update file", err)
	}
	return starred, nil
}

func (s *fileService) UpdateMeta(ctx context.Context, userID uint, fileID uint, in UpdateFileMetaInput) (FileView, error) {
	file, err := s.files.GetLiveByIDAndUser(ctx, nil, fileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FileView{}, newAppError(http.StatusNotFound, "file not found", nil)
		}
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	updates := map[string]interface{}{}
	if in.Description != nil {
		updates["description"] = *in.Description
		file.Description = *in.Description
	}
	if in.HasTags {
		encoded := encodeTags(in.Tags)
		updates["tags"] = encoded
		file.Tags = encoded
	}
	if len(updates) == 0 {
		return newFileView(file), nil
	}

	if err := s.files.UpdateByIDAndUser(ctx, nil, fileID, userID, updates); err != nil {
		return FileView{}, newAppError(http.StatusInternalServerError, "failed to update file", err)
	}
	return newFileView(file), nil
}

func (s *fileService) SoftDelete(ctx context.Context, userID uint, fileID uint) error {
	if _, err := s.files.GetLiveByIDAndUser(ctx, nil, fileID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newAppError(http.StatusNotFound, "file not found", nil)
		}
		return newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	// Quota is charged until permanent deletion; the blob still occupies
	// provider storage while the file sits in the trash.
	if err := s.files.SoftDeleteByIDAndUser(ctx, nil, fileID, userID); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete file", err)
	}
	return nil
}

func (s *fileService) Restore(ctx context.Context, userID uint, fileID uint) error {
	if _, err := s.files.GetTrashedByIDAndUser(ctx, nil, fileID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newAppError(http.StatusNotFound, "file not found in trash", nil)
		}
		return newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	if err := s.files.RestoreByIDAndUser(ctx, nil, fileID, userID); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to restore file", err)
	}
	return nil
}

// PermanentDelete purges a trashed file: the blob is deleted best-effort,
// then the record is removed and the quota counter released. Blob failures
// are logged and swallowed so a flaky provider cannot wedge the trash.
func (s *fileService) PermanentDelete(ctx context.Context, userID uint, fileID uint) error {
	file, err := s.files.GetTrashedByIDAndUser(ctx, nil, fileID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newAppError(http.StatusNotFound, "file not found in trash", nil)
		}
		return newAppError(http.StatusInternalServerError, "failed to query file", err)
	}

	deleteFileBlobs(ctx, s.blobs, file)

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.files.HardDeleteByIDAndUser(ctx, tx, fileID, userID); err != nil {
			return err
		}
		if !file.IsYouTube && file.Size > 0 {
			return s.users.SubStorageUsed(ctx, tx, userID, file.Size)
		}
		return nil
	})
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete file", err)
	}
	return nil
}

// deleteFileBlobs removes a file's blob and thumbnail from object storage,
// logging failures instead of propagating them. YouTube references own no
// blobs.
func deleteFileBlobs(ctx context.Context, blobs storage.BlobStore, file models.File) {
	if file.IsYouTube {
		return
	}
	if _, err := blobs.Delete(ctx, file.BlobName); err != nil {
		logger.Warnf("failed to delete blob %s: %v", file.BlobName, err)
	}
	if file.ThumbName != "" {
		if _, err := blobs.Delete(ctx, file.ThumbName); err != nil {
			logger.Warnf("failed to delete thumbnail %s: %v", file.ThumbName, err)
		}
	}
}
