package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventory/internal/cache"
	apperrors "inventory/internal/errors"
	"inventory/internal/model"
	"inventory/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// UpdateProfileInput lists the editable profile fields. Empty values keep the stored value.
type UpdateProfileInput struct {
	Name  string
	Phone string
	Bio   string
	Photo string
}

// UserService exposes profile operations for signed-in users.
type UserService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.Profile, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:profile:%s", id)
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var cached model.Profile
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := user.Profile()
	s.cache.SetJSON(ctx, s.cacheKey(id), profile, profileCacheTTL)
	return profile, nil
}

// UpdateProfile patches name, phone, bio and photo. The email address cannot be changed.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.Profile, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		user.Phone = v
	}
	if v := strings.TrimSpace(in.Bio); v != "" {
		user.Bio = v
	}
	if v := strings.TrimSpace(in.Photo); v != "" {
		user.Photo = v
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user.Profile(), nil
}

func (s *userService) find(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("USER_NOT_FOUND", "User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
