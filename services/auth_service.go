package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sujallchaudhary/drive/config"
	"github.com/sujallchaudhary/drive/models"
	"github.com/sujallchaudhary/drive/repositories"
	"github.com/sujallchaudhary/drive/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginOutput struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type ProfileOutput struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	StorageUsed  int64     `json:"storage_used"`
	StorageLimit int64     `json:"storage_limit"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (AuthUser, error)
	Login(ctx context.Context, in LoginInput) (LoginOutput, error)
	GetProfile(ctx context.Context, userID uint) (ProfileOutput, error)
}

type authService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (AuthUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return AuthUser{}, newAppError(http.StatusBadRequest, "email and password are required", nil)
	}

	count, err := s.users.CountByEmail(ctx, email)
	if err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to check email", err)
	}
	if count > 0 {
		return AuthUser{}, newAppError(http.StatusConflict, "email already registered", nil)
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to hash password", err)
	}

	user := models.User{
		Email:        email,
		Password:     hashedPassword,
		Name:         strings.TrimSpace(in.Name),
		StorageLimit: config.AppConfig.Storage.DefaultUserQuota,
	}
	if err := s.users.Create(ctx, nil, &user); err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to create user", err)
	}

	return AuthUser{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.users.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginOutput{}, newAppError(http.StatusUnauthorized, "invalid email or password", nil)
		}
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	if !utils.CheckPassword(in.Password, user.Password) {
		return LoginOutput{}, newAppError(http.StatusUnauthorized, "invalid email or password", nil)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to generate token", err)
	}

	return LoginOutput{
		Token: token,
		User:  AuthUser{ID: user.ID, Email: user.Email, Name: user.Name},
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (ProfileOutput, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileOutput{}, newAppError(http.StatusNotFound, "user not found", nil)
		}
		return ProfileOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	return ProfileOutput{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		StorageUsed:  user.StorageUsed,
		StorageLimit: user.StorageLimit,
		CreatedAt:    user.CreatedAt,
	}, nil
}
