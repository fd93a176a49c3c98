package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"storynest/internal/cache"
	"storynest/internal/generation"
	"storynest/internal/middleware"
	"storynest/internal/models"
	"storynest/internal/repository"
	"storynest/internal/storage"
)

// ColoringService manages line-art templates derived from story images and
// the works children color in and submit.
type ColoringService struct {
	coloringRepo repository.ColoringRepository
	storyRepo    repository.StoryRepository
	generator    generation.Generator
	store        storage.ObjectStorage
	images       *ImageService
}

func NewColoringService(
	coloringRepo repository.ColoringRepository,
	storyRepo repository.StoryRepository,
	generator generation.Generator,
	store storage.ObjectStorage,
	images *ImageService,
) *ColoringService {
	return &ColoringService{
		coloringRepo: coloringRepo,
		storyRepo:    storyRepo,
		generator:    generator,
		store:        store,
		images:       images,
	}
}

// CreateTemplate converts the story's illustration into a black-and-white
// coloring page. One template exists per (user, story); a second request
// refreshes the existing row instead of converting again.
func (s *ColoringService) CreateTemplate(ctx context.Context, storyID, userID uint) (*models.ColoringTemplate, error) {
	story, err := s.storyRepo.GetByIDAndUser(ctx, storyID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("story", storyID)
		}
		return nil, models.NewInternalError(err)
	}
	if story.Image == "" {
		return nil, models.NewMissingMediaError("story has no illustration to convert")
	}

	if existing, getErr := s.coloringRepo.GetTemplateByStoryAndUser(ctx, storyID, userID); getErr == nil {
		return existing, nil
	} else if !isNotFound(getErr) {
		return nil, models.NewInternalError(getErr)
	}

	convertedPath, err := s.generator.ConvertToColoringBook(ctx, story.Image)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("coloring/templates/%d/story-%d.png", userID, storyID)
	templateURL, err := s.store.UploadFile(ctx, key, convertedPath, "image/png")
	if err != nil {
		return nil, models.NewDependencyError("failed to store coloring template", err)
	}

	tpl := &models.ColoringTemplate{
		UserID:             userID,
		StoryID:            storyID,
		Title:              story.Title,
		OriginalImageURL:   story.Image,
		BlackWhiteImageURL: templateURL,
	}
	if err := s.coloringRepo.UpsertTemplate(ctx, tpl); err != nil {
		return nil, models.NewInternalError(err)
	}
	return tpl, nil
}

// ListTemplates returns the user's coloring templates, newest first.
func (s *ColoringService) ListTemplates(ctx context.Context, userID uint) ([]*models.ColoringTemplate, error) {
	tpls, err := s.coloringRepo.GetTemplatesByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tpls, nil
}

// SubmitWorkInput carries an uploaded colored image.
type SubmitWorkInput struct {
	UserID      uint
	TemplateID  *uint
	StoryTitle  string
	Content     []byte
	ContentType string
}

// SubmitWork normalizes the upload, stores the display image and thumbnail
// and records the work. When a template id is given, the title and original
// image come from the template.
func (s *ColoringService) SubmitWork(ctx context.Context, in SubmitWorkInput) (*models.ColoringWork, error) {
	normalized, err := s.images.Normalize(in.Content, in.ContentType)
	if err != nil {
		return nil, err
	}

	work := &models.ColoringWork{
		UserID:     in.UserID,
		StoryTitle: in.StoryTitle,
		TemplateID: in.TemplateID,
	}

	if in.TemplateID != nil {
		tpls, tplErr := s.coloringRepo.GetTemplatesByUserID(ctx, in.UserID)
		if tplErr != nil {
			return nil, models.NewInternalError(tplErr)
		}
		found := false
		for _, tpl := range tpls {
			if tpl.ID == *in.TemplateID {
				work.StoryTitle = tpl.Title
				work.OriginalImageURL = tpl.BlackWhiteImageURL
				found = true
				break
			}
		}
		if !found {
			return nil, models.NewNotFoundError("coloring template", *in.TemplateID)
		}
	}

	stamp := time.Now().UnixNano()
	key := fmt.Sprintf("coloring/works/%d/%d.webp", in.UserID, stamp)
	completedURL, err := s.store.Upload(ctx, key, bytes.NewReader(normalized.WebP), "image/webp")
	if err != nil {
		return nil, models.NewDependencyError("failed to store coloring work", err)
	}
	work.CompletedImageURL = completedURL

	thumbKey := fmt.Sprintf("coloring/works/%d/%d-thumb.jpg", in.UserID, stamp)
	if _, thumbErr := s.store.Upload(ctx, thumbKey, bytes.NewReader(normalized.Thumbnail), "image/jpeg"); thumbErr != nil {
		middleware.Logger.WarnContext(ctx, "coloring work thumbnail upload failed",
			"user_id", in.UserID, "error", thumbErr)
	}

	if err := s.coloringRepo.CreateWork(ctx, work); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateGalleryStats(ctx, in.UserID)
	return work, nil
}

// ListWorks returns the user's submitted works, newest first.
func (s *ColoringService) ListWorks(ctx context.Context, userID uint) ([]*models.ColoringWork, error) {
	works, err := s.coloringRepo.GetWorksByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return works, nil
}

// DeleteWork removes one of the user's works.
func (s *ColoringService) DeleteWork(ctx context.Context, workID, userID uint) error {
	if _, err := s.coloringRepo.GetWorkByIDAndUser(ctx, workID, userID); err != nil {
		if isNotFound(err) {
			return models.NewNotFoundError("coloring work", workID)
		}
		return models.NewInternalError(err)
	}
	if err := s.coloringRepo.DeleteWork(ctx, workID, userID); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateGalleryStats(ctx, userID)
	return nil
}
