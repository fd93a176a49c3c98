package repository

import (
	"context"

	"storynest/internal/models"

	"gorm.io/gorm"
)

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Story, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Story, error)
	GetWithImageByUserID(ctx context.Context, userID uint) ([]*models.Story, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id, userID uint) error
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

// GetByIDAndUser scopes the lookup to the owner. A story belonging to a
// different user comes back as gorm.ErrRecordNotFound, indistinguishable from
// a missing row.
func (r *storyRepository) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&story).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *storyRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&stories).Error
	return stories, err
}

// GetWithImageByUserID returns the user's stories that have a generated
// image, newest first. The gallery aggregator merges these with coloring
// entries.
func (r *storyRepository) GetWithImageByUserID(ctx context.Context, userID uint) ([]*models.Story, error) {
	var stories []*models.Story
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND image <> ''", userID).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

func (r *storyRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Story{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *storyRepository) Update(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Save(story).Error
}

func (r *storyRepository) Delete(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Story{}).Error
}
