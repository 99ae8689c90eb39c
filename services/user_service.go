package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/sujallchaudhary/drive/repositories"

	"gorm.io/gorm"
)

type StorageUsageOutput struct {
	StorageUsed    int64   `json:"storage_used"`
	StorageLimit   int64   `json:"storage_limit"`
	AvailableSpace int64   `json:"available_space"`
	PercentageUsed float64 `json:"percentage_used"`
}

type UserService interface {
	GetStorageUsage(ctx context.Context, userID uint) (StorageUsageOutput, error)
}

type userService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetStorageUsage(ctx context.Context, userID uint) (StorageUsageOutput, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StorageUsageOutput{}, newAppError(http.StatusNotFound, "user not found", nil)
		}
		return StorageUsageOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	available := user.StorageLimit - user.StorageUsed
	if available < 0 {
		available = 0
	}

	var percent float64
	if user.StorageLimit > 0 {
		percent = float64(user.StorageUsed) / float64(user.StorageLimit) * 100
	}

	return StorageUsageOutput{
		StorageUsed:    user.StorageUsed,
		StorageLimit:   user.StorageLimit,
		AvailableSpace: available,
		PercentageUsed: percent,
	}, nil
}
