package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/sujallchaudhary/drive/models"

	"gorm.io/gorm"
)

type GormFileRepository struct {
	db *gorm.DB
}

func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	return &GormFileRepository{db: db}
}

var filterFileTypes = map[string]string{
	"images": "image",
	"videos": "video",
	"pdfs":   "pdf",
	"docs":   "document",
}

// scopeQuery builds the listing predicate. Every branch pins user_id; only
// the trash filter looks at soft-deleted rows.
func (r *GormFileRepository) scopeQuery(db *gorm.DB, in ListFilesInput) *gorm.DB {
	query := db.Model(&models.File{})

	switch {
	case in.Filter == "trash":
		query = query.Unscoped().Where("user_id = ? AND deleted_at IS NOT NULL", in.UserID)
	case in.Filter == "starred":
		query = query.Where("user_id = ? AND is_starred = ?", in.UserID, true)
	case in.Filter == "recent":
		query = query.Where("user_id = ? AND uploaded_at >= ?", in.UserID, time.Now().AddDate(0, 0, -7))
	default:
		query = query.Where("user_id = ?", in.UserID)
		if fileType, ok := filterFileTypes[in.Filter]; ok {
			query = query.Where("file_type = ?", fileType)
		}
	}

	if search := strings.TrimSpace(in.Search); search != "" {
		term := "%" + escapeLike(search) + "%"
		query = query.Where(
			"(name LIKE ? OR original_name LIKE ? OR description LIKE ? OR tags LIKE ?)",
			term, term, term, term,
		)
	}

	return query
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

func (r *GormFileRepository) Create(_ context.Context, tx *gorm.DB, file *models.File) error {
	return useTx(r.db, tx).Create(file).Error
}

func (r *GormFileRepository) CountByQuery(_ context.Context, tx *gorm.DB, in ListFilesInput) (int64, error) {
	var total int64
	err := r.scopeQuery(useTx(r.db, tx), in).Count(&total).Error
	return total, err
}

func (r *GormFileRepository) ListByQuery(_ context.Context, tx *gorm.DB, in ListFilesInput) ([]models.File, error) {
	var files []models.File
	err := r.scopeQuery(useTx(r.db, tx), in).
		Order("uploaded_at DESC").
		Offset(in.Offset).
		Limit(in.Limit).
		Find(&files).Error
	return files, err
}

func (r *GormFileRepository) GetLiveByIDAndUser(_ context.Context, tx *gorm.DB, fileID uint, userID uint) (models.File, error) {
	var file models.File
	err := useTx(r.db, tx).Where("id = ? AND user_id = ?", fileID, userID).First(&file).Error
	return file, err
}

func (r *GormFileRepository) GetTrashedByIDAndUser(_ context.Context, tx *gorm.DB, fileID uint, userID uint) (models.File, error) {
	var file models.File
	err := useTx(r.db, tx).Unscoped().
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", fileID, userID).
		First(&file).Error
	return file, err
}

func (r *GormFileRepository) UpdateByIDAndUser(_ context.Context, tx *gorm.DB, fileID uint, userID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.File{}).
		Where("id = ? AND user_id = ?", fileID, userID).
		Updates(updates).Error
}

func (r *GormFileRepository) SoftDeleteByIDAndUser(_ context.Context, tx *gorm.DB, fileID uint, userID uint) error {
	return useTx(r.db, tx).Where("id = ? AND user_id = ?", fileID, userID).Delete(&models.File{}).Error
}

func (r *GormFileRepository) RestoreByIDAndUser(_ context.Context, tx *gorm.DB, fileID uint, userID uint) error {
	return useTx(r.db, tx).Unscoped().Model(&models.File{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", fileID, userID).
		Update("deleted_at", nil).Error
}

func (r *GormFileRepository) HardDeleteByIDAndUser(_ context.Context, tx *gorm.DB, fileID uint, userID uint) error {
	return useTx(r.db, tx).Unscoped().
		Where("id = ? AND user_id = ?", fileID, userID).
		Delete(&models.File{}).Error
}

func (r *GormFileRepository) GetByShareToken(_ context.Context, tx *gorm.DB, token string) (models.File, error) {
	var file models.File
	err := useTx(r.db, tx).
		Where("share_token = ? AND is_public = ?", token, true).
		First(&file).Error
	return file, err
}

func (r *GormFileRepository) CountLiveByUserAndBlobURL(_ context.Context, tx *gorm.DB, userID uint, blobURL string) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.File{}).
		Where("user_id = ? AND blob_url = ?", userID, blobURL).
		Count(&count).Error
	return count, err
}

func (r *GormFileRepository) ListTrashedBefore(_ context.Context, tx *gorm.DB, cutoff time.Time) ([]models.File, error) {
	var files []models.File
	err := useTx(r.db, tx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&files).Error
	return files, err
}
