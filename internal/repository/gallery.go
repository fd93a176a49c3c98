package repository

import (
	"context"

	"storynest/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GalleryRepository defines the interface for gallery data operations
type GalleryRepository interface {
	Upsert(ctx context.Context, gallery *models.Gallery) error
	GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Gallery, error)
	GetByStoryAndUser(ctx context.Context, storyID, userID uint) (*models.Gallery, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.Gallery, error)
	CountColoringByUserID(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id, userID uint) error
}

type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository creates a new gallery repository
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

// Upsert writes the gallery row for (story, user), updating image URLs in
// place when the row already exists. The composite unique index keeps
// concurrent saves from producing duplicates.
func (r *galleryRepository) Upsert(ctx context.Context, gallery *models.Gallery) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "story_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"story_title", "color_image_url", "coloring_image_url", "updated_at",
			}),
		}).
		Create(gallery).Error
}

func (r *galleryRepository) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&gallery).Error
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

func (r *galleryRepository) GetByStoryAndUser(ctx context.Context, storyID, userID uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.WithContext(ctx).
		Where("story_id = ? AND user_id = ?", storyID, userID).
		First(&gallery).Error
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

func (r *galleryRepository) GetByUserID(ctx context.Context, userID uint) ([]*models.Gallery, error) {
	var galleries []*models.Gallery
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&galleries).Error
	return galleries, err
}

// CountColoringByUserID counts gallery rows that carry a colored image.
func (r *galleryRepository) CountColoringByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Gallery{}).
		Where("user_id = ? AND coloring_image_url <> ''", userID).
		Count(&count).Error
	return count, err
}

func (r *galleryRepository) Delete(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Gallery{}).Error
}
