package repository

import (
	"context"

	"storynest/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ColoringRepository defines the interface for coloring template and work data operations
type ColoringRepository interface {
	UpsertTemplate(ctx context.Context, tpl *models.ColoringTemplate) error
	GetTemplateByStoryAndUser(ctx context.Context, storyID, userID uint) (*models.ColoringTemplate, error)
	GetTemplatesByUserID(ctx context.Context, userID uint) ([]*models.ColoringTemplate, error)
	CreateWork(ctx context.Context, work *models.ColoringWork) error
	GetWorkByIDAndUser(ctx context.Context, id, userID uint) (*models.ColoringWork, error)
	GetWorksByUserID(ctx context.Context, userID uint) ([]*models.ColoringWork, error)
	CountWorksByUserID(ctx context.Context, userID uint) (int64, error)
	DeleteWork(ctx context.Context, id, userID uint) error
}

type coloringRepository struct {
	db *gorm.DB
}

// NewColoringRepository creates a new coloring repository
func NewColoringRepository(db *gorm.DB) ColoringRepository {
	return &coloringRepository{db: db}
}

// UpsertTemplate keeps one template per (user, story), refreshing the image
// URLs on regeneration.
func (r *coloringRepository) UpsertTemplate(ctx context.Context, tpl *models.ColoringTemplate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "story_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "original_image_url", "black_white_image_url", "updated_at",
			}),
		}).
		Create(tpl).Error
}

func (r *coloringRepository) GetTemplateByStoryAndUser(ctx context.Context, storyID, userID uint) (*models.ColoringTemplate, error) {
	var tpl models.ColoringTemplate
	err := r.db.WithContext(ctx).
		Where("story_id = ? AND user_id = ?", storyID, userID).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *coloringRepository) GetTemplatesByUserID(ctx context.Context, userID uint) ([]*models.ColoringTemplate, error) {
	var tpls []*models.ColoringTemplate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tpls).Error
	return tpls, err
}

func (r *coloringRepository) CreateWork(ctx context.Context, work *models.ColoringWork) error {
	return r.db.WithContext(ctx).Create(work).Error
}

func (r *coloringRepository) GetWorkByIDAndUser(ctx context.Context, id, userID uint) (*models.ColoringWork, error) {
	var work models.ColoringWork
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&work).Error
	if err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *coloringRepository) GetWorksByUserID(ctx context.Context, userID uint) ([]*models.ColoringWork, error) {
	var works []*models.ColoringWork
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&works).Error
	return works, err
}

func (r *coloringRepository) CountWorksByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ColoringWork{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *coloringRepository) DeleteWork(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ColoringWork{}).Error
}
