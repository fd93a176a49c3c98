package service

import (
	"context"
	"strings"
	"time"

	"storynest/internal/models"
	"storynest/internal/repository"
)

// BabyService manages child profiles. Each account holds at most one baby;
// the limit is deliberate, the display name is built from the first (only)
// child.
type BabyService struct {
	babyRepo repository.BabyRepository
}

func NewBabyService(babyRepo repository.BabyRepository) *BabyService {
	return &BabyService{babyRepo: babyRepo}
}

type BabyInput struct {
	Name      string
	Gender    string
	BirthDate time.Time
}

// Create registers the user's baby. A second baby is rejected.
func (s *BabyService) Create(ctx context.Context, userID uint, in BabyInput) (*models.Baby, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("baby name is required")
	}

	existing, err := s.babyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(existing) > 0 {
		return nil, models.NewValidationError("only one baby profile is allowed per account")
	}

	baby := &models.Baby{
		UserID:    userID,
		Name:      name,
		Gender:    in.Gender,
		BirthDate: in.BirthDate,
	}
	if err := s.babyRepo.Create(ctx, baby); err != nil {
		return nil, models.NewInternalError(err)
	}
	return baby, nil
}

// List returns the user's babies in creation order.
func (s *BabyService) List(ctx context.Context, userID uint) ([]*models.Baby, error) {
	babies, err := s.babyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return babies, nil
}

// Update edits an owned baby profile.
func (s *BabyService) Update(ctx context.Context, babyID, userID uint, in BabyInput) (*models.Baby, error) {
	baby, err := s.babyRepo.GetByIDAndUser(ctx, babyID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("baby", babyID)
		}
		return nil, models.NewInternalError(err)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		baby.Name = name
	}
	if in.Gender != "" {
		baby.Gender = in.Gender
	}
	if !in.BirthDate.IsZero() {
		baby.BirthDate = in.BirthDate
	}

	if err := s.babyRepo.Update(ctx, baby); err != nil {
		return nil, models.NewInternalError(err)
	}
	return baby, nil
}

// Delete removes an owned baby profile. Display names already snapshotted
// onto posts and comments are not rewritten.
func (s *BabyService) Delete(ctx context.Context, babyID, userID uint) error {
	if _, err := s.babyRepo.GetByIDAndUser(ctx, babyID, userID); err != nil {
		if isNotFound(err) {
			return models.NewNotFoundError("baby", babyID)
		}
		return models.NewInternalError(err)
	}
	if err := s.babyRepo.Delete(ctx, babyID, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
