package services

import (
	"github.com/sujallchaudhary/drive/repositories"
	"github.com/sujallchaudhary/drive/storage"
)

// Container bundles every service behind its interface so handlers depend
// on one injected value.
type Container struct {
	Auth    AuthService
	User    UserService
	File    FileService
	Upload  UploadService
	Share   ShareService
	YouTube YouTubeService
	Cleanup CleanupService
}

func NewContainer(repos *repositories.Container, blobs storage.BlobStore) *Container {
	return &Container{
		Auth:    NewAuthService(repos.Users),
		User:    NewUserService(repos.Users),
		File:    NewFileService(repos.TxManager, repos.Users, repos.Files, blobs),
		Upload:  NewUploadService(repos.TxManager, repos.Users, repos.Files, repos.PendingUploads, blobs),
		Share:   NewShareService(repos.Files),
		YouTube: NewYouTubeService(repos.Files),
		Cleanup: NewCleanupService(repos.TxManager, repos.Users, repos.Files, blobs),
	}
}
