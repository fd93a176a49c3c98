package repository

import (
	"context"

	"storynest/internal/models"

	"gorm.io/gorm"
)

// BabyRepository defines the interface for baby profile data operations
type BabyRepository interface {
	Create(ctx context.Context, baby *models.Baby) error
	GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Baby, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.Baby, error)
	FirstByUserID(ctx context.Context, userID uint) (*models.Baby, error)
	Update(ctx context.Context, baby *models.Baby) error
	Delete(ctx context.Context, id, userID uint) error
}

type babyRepository struct {
	db *gorm.DB
}

// NewBabyRepository creates a new baby repository
func NewBabyRepository(db *gorm.DB) BabyRepository {
	return &babyRepository{db: db}
}

func (r *babyRepository) Create(ctx context.Context, baby *models.Baby) error {
	return r.db.WithContext(ctx).Create(baby).Error
}

func (r *babyRepository) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Baby, error) {
	var baby models.Baby
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&baby).Error
	if err != nil {
		return nil, err
	}
	return &baby, nil
}

func (r *babyRepository) GetByUserID(ctx context.Context, userID uint) ([]*models.Baby, error) {
	var babies []*models.Baby
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&babies).Error
	return babies, err
}

// FirstByUserID returns the user's oldest baby profile or gorm.ErrRecordNotFound.
func (r *babyRepository) FirstByUserID(ctx context.Context, userID uint) (*models.Baby, error) {
	var baby models.Baby
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&baby).Error
	if err != nil {
		return nil, err
	}
	return &baby, nil
}

func (r *babyRepository) Update(ctx context.Context, baby *models.Baby) error {
	return r.db.WithContext(ctx).Save(baby).Error
}

func (r *babyRepository) Delete(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Baby{}).Error
}
