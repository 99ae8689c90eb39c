package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sujallchaudhary/drive/config"
	"github.com/sujallchaudhary/drive/models"
	"github.com/sujallchaudhary/drive/repositories"

	"gorm.io/gorm"
)

func setupTestConfig() {
	config.AppConfig = &config.Config{
		Blob: config.BlobConfig{
			PublicBaseURL:     "https://blobs.test/drive-files",
			PresignTTLMinutes: 60,
		},
		Storage: config.StorageConfig{
			MaxUploadSize:    10 * 1024 * 1024,
			DefaultUserQuota: 1000,
		},
		Share: config.ShareConfig{
			BaseURL:    "https://drive.test",
			TokenBytes: 16,
		},
		Trash: config.TrashConfig{
			Enabled:       true,
			RetentionDays: 30,
		},
		Thumbnail: config.ThumbnailConfig{Width: 320, Height: 320, Quality: 80},
		Pagination: config.PaginationConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
	}
}

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeUserRepo struct {
	usersByID    map[uint]models.User
	usersByEmail map[string]models.User
	nextID       uint
	addDeltas    []int64
	subDeltas    []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByID:    map[uint]models.User{},
		usersByEmail: map[string]models.User{},
		nextID:       1,
	}
}

func (r *fakeUserRepo) put(user models.User) {
	r.usersByID[user.ID] = user
	r.usersByEmail[user.Email] = user
	if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
}

func (r *fakeUserRepo) CountByEmail(_ context.Context, email string) (int64, error) {
	if _, ok := r.usersByEmail[email]; ok {
		return 1, nil
	}
	return 0, nil
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.put(*user)
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (models.User, error) {
	user, ok := r.usersByEmail[email]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, userID uint) (models.User, error) {
	user, ok := r.usersByID[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) AddStorageUsed(_ context.Context, _ *gorm.DB, userID uint, delta int64) error {
	user, ok := r.usersByID[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.StorageUsed += delta
	r.put(user)
	r.addDeltas = append(r.addDeltas, delta)
	return nil
}

func (r *fakeUserRepo) SubStorageUsed(_ context.Context, _ *gorm.DB, userID uint, delta int64) error {
	user, ok := r.usersByID[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.StorageUsed -= delta
	if user.StorageUsed < 0 {
		user.StorageUsed = 0
	}
	r.put(user)
	r.subDeltas = append(r.subDeltas, delta)
	return nil
}

var fakeFilterTypes = map[string]string{
	"images": FileTypeImage,
	"videos": FileTypeVideo,
	"pdfs":   FileTypePDF,
	"docs":   FileTypeDocument,
}

type fakeFileRepo struct {
	files  map[uint]models.File
	order  []uint
	nextID uint
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[uint]models.File{}, nextID: 1}
}

func (r *fakeFileRepo) put(file models.File) {
	if _, ok := r.files[file.ID]; !ok {
		r.order = append(r.order, file.ID)
	}
	r.files[file.ID] = file
	if file.ID >= r.nextID {
		r.nextID = file.ID + 1
	}
}

func (r *fakeFileRepo) Create(_ context.Context, _ *gorm.DB, file *models.File) error {
	for _, existing := range r.files {
		if existing.BlobName == file.BlobName {
			return gorm.ErrDuplicatedKey
		}
	}
	if file.ID == 0 {
		file.ID = r.nextID
		r.nextID++
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now()
	}
	r.put(*file)
	return nil
}

func (r *fakeFileRepo) matches(file models.File, in repositories.ListFilesInput) bool {
	if file.UserID != in.UserID {
		return false
	}
	switch in.Filter {
	case "trash":
		if !file.DeletedAt.Valid {
			return false
		}
	case "starred":
		if file.DeletedAt.Valid || !file.IsStarred {
			return false
		}
	case "recent":
		if file.DeletedAt.Valid || file.UploadedAt.Before(time.Now().Add(-7*24*time.Hour)) {
			return false
		}
	default:
		if file.DeletedAt.Valid {
			return false
		}
		if ft, ok := fakeFilterTypes[in.Filter]; ok && file.FileType != ft {
			return false
		}
	}
	if in.Search != "" {
		needle := strings.ToLower(in.Search)
		haystack := strings.ToLower(file.Name + " " + file.OriginalName + " " + file.Description + " " + file.Tags)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func (r *fakeFileRepo) query(in repositories.ListFilesInput) []models.File {
	var out []models.File
	for _, id := range r.order {
		file, ok := r.files[id]
		if ok && r.matches(file, in) {
			out = append(out, file)
		}
	}
	return out
}

func (r *fakeFileRepo) CountByQuery(_ context.Context, _ *gorm.DB, in repositories.ListFilesInput) (int64, error) {
	return int64(len(r.query(in))), nil
}

func (r *fakeFileRepo) ListByQuery(_ context.Context, _ *gorm.DB, in repositories.ListFilesInput) ([]models.File, error) {
	matched := r.query(in)
	if in.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[in.Offset:]
	if in.Limit > 0 && in.Limit < len(matched) {
		matched = matched[:in.Limit]
	}
	return matched, nil
}

func (r *fakeFileRepo) GetLiveByIDAndUser(_ context.Context, _ *gorm.DB, fileID uint, userID uint) (models.File, error) {
	file, ok := r.files[fileID]
	if !ok || file.UserID != userID || file.DeletedAt.Valid {
		return models.File{}, gorm.ErrRecordNotFound
	}
	return file, nil
}

func (r *fakeFileRepo) GetTrashedByIDAndUser(_ context.Context, _ *gorm.DB, fileID uint, userID uint) (models.File, error) {
	file, ok := r.files[fileID]
	if !ok || file.UserID != userID || !file.DeletedAt.Valid {
		return models.File{}, gorm.ErrRecordNotFound
	}
	return file, nil
}

func (r *fakeFileRepo) UpdateByIDAndUser(_ context.Context, _ *gorm.DB, fileID uint, userID uint, updates map[string]interface{}) error {
	file, ok := r.files[fileID]
	if !ok || file.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	for column, value := range updates {
		switch column {
		case "name":
			file.Name = value.(string)
		case "is_starred":
			file.IsStarred = value.(bool)
		case "description":
			file.Description = value.(string)
		case "tags":
			file.Tags = value.(string)
		case "is_public":
			file.IsPublic = value.(bool)
		case "share_token":
			if value == nil {
				file.ShareToken = nil
			} else {
				token := value.(string)
				file.ShareToken = &token
			}
		default:
			return fmt.Errorf("fakeFileRepo: unsupported column %q", column)
		}
	}
	r.put(file)
	return nil
}

func (r *fakeFileRepo) SoftDeleteByIDAndUser(_ context.Context, _ *gorm.DB, fileID uint, userID uint) error {
	file, ok := r.files[fileID]
	if !ok || file.UserID != userID || file.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	file.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.put(file)
	return nil
}

func (r *fakeFileRepo) RestoreByIDAndUser(_ context.Context, _ *gorm.DB, fileID uint, userID uint) error {
	file, ok := r.files[fileID]
	if !ok || file.UserID != userID || !file.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	file.DeletedAt = gorm.DeletedAt{}
	r.put(file)
	return nil
}

func (r *fakeFileRepo) HardDeleteByIDAndUser(_ context.Context, _ *gorm.DB, fileID uint, userID uint) error {
	file, ok := r.files[fileID]
	if !ok || file.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.files, fileID)
	for i, id := range r.order {
		if id == fileID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeFileRepo) GetByShareToken(_ context.Context, _ *gorm.DB, token string) (models.File, error) {
	for _, file := range r.files {
		if file.ShareToken != nil && *file.ShareToken == token && file.IsPublic && !file.DeletedAt.Valid {
			return file, nil
		}
	}
	return models.File{}, gorm.ErrRecordNotFound
}

func (r *fakeFileRepo) CountLiveByUserAndBlobURL(_ context.Context, _ *gorm.DB, userID uint, blobURL string) (int64, error) {
	var count int64
	for _, file := range r.files {
		if file.UserID == userID && file.BlobURL == blobURL && !file.DeletedAt.Valid {
			count++
		}
	}
	return count, nil
}

func (r *fakeFileRepo) ListTrashedBefore(_ context.Context, _ *gorm.DB, cutoff time.Time) ([]models.File, error) {
	var out []models.File
	for _, id := range r.order {
		file := r.files[id]
		if file.DeletedAt.Valid && file.DeletedAt.Time.Before(cutoff) {
			out = append(out, file)
		}
	}
	return out, nil
}

type fakePendingUploadRepo struct {
	entries map[string]repositories.PendingUpload
	ttls    map[string]time.Duration
}

func newFakePendingUploadRepo() *fakePendingUploadRepo {
	return &fakePendingUploadRepo{
		entries: map[string]repositories.PendingUpload{},
		ttls:    map[string]time.Duration{},
	}
}

func (r *fakePendingUploadRepo) Save(_ context.Context, blobName string, pending repositories.PendingUpload, ttl time.Duration) error {
	r.entries[blobName] = pending
	r.ttls[blobName] = ttl
	return nil
}

func (r *fakePendingUploadRepo) Get(_ context.Context, blobName string) (repositories.PendingUpload, bool, error) {
	pending, ok := r.entries[blobName]
	return pending, ok, nil
}

func (r *fakePendingUploadRepo) Delete(_ context.Context, blobName string) error {
	delete(r.entries, blobName)
	delete(r.ttls, blobName)
	return nil
}

type fakeBlobStore struct {
	objects   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
	existsErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (s *fakeBlobStore) blobURL(blobName string) string {
	return s.ContainerURL() + "/" + blobName
}

func (s *fakeBlobStore) Upload(_ context.Context, content []byte, blobName string, _ string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.objects[blobName] = content
	return s.blobURL(blobName), nil
}

func (s *fakeBlobStore) Delete(_ context.Context, blobName string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	_, existed := s.objects[blobName]
	delete(s.objects, blobName)
	s.deleted = append(s.deleted, blobName)
	return existed, nil
}

func (s *fakeBlobStore) Exists(_ context.Context, blobName string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.objects[blobName]
	return ok, nil
}

func (s *fakeBlobStore) PresignUpload(_ context.Context, blobName string, _ time.Duration) (string, error) {
	return s.blobURL(blobName) + "?X-Amz-Signature=test", nil
}

func (s *fakeBlobStore) EnsureContainer(context.Context) error {
	return nil
}

func (s *fakeBlobStore) ContainerURL() string {
	return "https://blobs.test/drive-files"
}
