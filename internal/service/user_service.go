package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"storynest/internal/middleware"
	"storynest/internal/models"
	"storynest/internal/repository"
	"storynest/internal/storage"
	"storynest/internal/validation"
)

// UserService manages profiles.
type UserService struct {
	userRepo repository.UserRepository
	store    storage.ObjectStorage
	images   *ImageService
}

func NewUserService(userRepo repository.UserRepository, store storage.ObjectStorage, images *ImageService) *UserService {
	return &UserService{userRepo: userRepo, store: store, images: images}
}

// GetMe returns the user's profile with babies preloaded.
func (s *UserService) GetMe(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithBabies(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("user", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

type UpdateProfileInput struct {
	UserID   uint
	Nickname string
}

// UpdateProfile changes the user's nickname. Nicknames are globally unique;
// taking one that belongs to someone else is rejected.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("user", in.UserID)
		}
		return nil, models.NewInternalError(err)
	}

	if in.Nickname != "" && in.Nickname != user.Nickname {
		if err := validation.ValidateNickname(in.Nickname); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if existing, lookupErr := s.userRepo.GetByNickname(ctx, in.Nickname); lookupErr == nil && existing.ID != user.ID {
			return nil, models.NewValidationError("nickname is already taken")
		} else if lookupErr != nil && !isNotFound(lookupErr) {
			return nil, models.NewInternalError(lookupErr)
		}
		user.Nickname = in.Nickname
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// UpdateProfileImage normalizes and stores the uploaded avatar.
func (s *UserService) UpdateProfileImage(ctx context.Context, userID uint, content []byte, contentType string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("user", userID)
		}
		return nil, models.NewInternalError(err)
	}

	normalized, err := s.images.Normalize(content, contentType)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("profiles/%d/%d.webp", userID, time.Now().UnixNano())
	url, err := s.store.Upload(ctx, key, bytes.NewReader(normalized.WebP), "image/webp")
	if err != nil {
		return nil, models.NewDependencyError("failed to store profile image", err)
	}

	if user.ProfileImageURL != "" {
		middleware.Logger.InfoContext(ctx, "replacing profile image", "user_id", userID)
	}
	user.ProfileImageURL = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}
