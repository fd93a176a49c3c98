package service

import (
	"context"
	"sort"

	"storynest/internal/cache"
	"storynest/internal/models"
	"storynest/internal/repository"
)

// GalleryService aggregates the user's pictures: story illustrations on one
// side, completed coloring works on the other, plus per-story colored images.
type GalleryService struct {
	galleryRepo  repository.GalleryRepository
	storyRepo    repository.StoryRepository
	coloringRepo repository.ColoringRepository
}

func NewGalleryService(
	galleryRepo repository.GalleryRepository,
	storyRepo repository.StoryRepository,
	coloringRepo repository.ColoringRepository,
) *GalleryService {
	return &GalleryService{
		galleryRepo:  galleryRepo,
		storyRepo:    storyRepo,
		coloringRepo: coloringRepo,
	}
}

// UserGalleryImages merges story illustrations and coloring works into one
// list, newest first. The two id-spaces are kept apart by the Source tag.
// Story entries carry the user's colored image when a gallery row has one.
func (s *GalleryService) UserGalleryImages(ctx context.Context, userID uint) ([]*models.GalleryImage, error) {
	stories, err := s.storyRepo.GetWithImageByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	works, err := s.coloringRepo.GetWorksByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	colored, err := s.coloringByStory(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	images := make([]*models.GalleryImage, 0, len(stories)+len(works))
	for _, story := range stories {
		images = append(images, &models.GalleryImage{
			ID:               story.ID,
			Source:           models.GalleryImageSourceStory,
			Title:            story.Title,
			ColorImageURL:    story.Image,
			ColoringImageURL: colored[story.ID],
			CreatedAt:        story.CreatedAt,
		})
	}
	for _, work := range works {
		images = append(images, &models.GalleryImage{
			ID:               work.ID,
			Source:           models.GalleryImageSourceColoring,
			Title:            work.StoryTitle,
			ColorImageURL:    work.OriginalImageURL,
			ColoringImageURL: work.CompletedImageURL,
			CreatedAt:        work.CreatedAt,
		})
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})
	return images, nil
}

// UserStoryImages lists only the story-illustration side of the gallery.
func (s *GalleryService) UserStoryImages(ctx context.Context, userID uint) ([]*models.GalleryImage, error) {
	stories, err := s.storyRepo.GetWithImageByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	colored, err := s.coloringByStory(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	images := make([]*models.GalleryImage, 0, len(stories))
	for _, story := range stories {
		images = append(images, &models.GalleryImage{
			ID:               story.ID,
			Source:           models.GalleryImageSourceStory,
			Title:            story.Title,
			ColorImageURL:    story.Image,
			ColoringImageURL: colored[story.ID],
			CreatedAt:        story.CreatedAt,
		})
	}
	return images, nil
}

// coloringByStory indexes the user's gallery rows that carry a colored image
// by story id, so story entries can be joined against them.
func (s *GalleryService) coloringByStory(ctx context.Context, userID uint) (map[uint]string, error) {
	rows, err := s.galleryRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	colored := make(map[uint]string, len(rows))
	for _, row := range rows {
		if row.ColoringImageURL != "" {
			colored[row.StoryID] = row.ColoringImageURL
		}
	}
	return colored, nil
}

// UserColoringWorks lists only the coloring-work side of the gallery.
func (s *GalleryService) UserColoringWorks(ctx context.Context, userID uint) ([]*models.GalleryImage, error) {
	works, err := s.coloringRepo.GetWorksByUserID(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	images := make([]*models.GalleryImage, 0, len(works))
	for _, work := range works {
		images = append(images, &models.GalleryImage{
			ID:               work.ID,
			Source:           models.GalleryImageSourceColoring,
			Title:            work.StoryTitle,
			ColorImageURL:    work.OriginalImageURL,
			ColoringImageURL: work.CompletedImageURL,
			CreatedAt:        work.CreatedAt,
		})
	}
	return images, nil
}

// StoryGalleryImage returns the per-story gallery row for the user.
func (s *GalleryService) StoryGalleryImage(ctx context.Context, storyID, userID uint) (*models.Gallery, error) {
	gallery, err := s.galleryRepo.GetByStoryAndUser(ctx, storyID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("gallery entry for story", storyID)
		}
		return nil, models.NewInternalError(err)
	}
	return gallery, nil
}

// UpdateColoringImage attaches the user's colored image to the story's
// gallery row, creating the row from the story when none exists yet. The
// upsert keys on (story, user), so concurrent saves collapse into one row.
func (s *GalleryService) UpdateColoringImage(ctx context.Context, storyID, userID uint, coloringImageURL string) (*models.Gallery, error) {
	if coloringImageURL == "" {
		return nil, models.NewValidationError("coloring image URL is required")
	}

	gallery, err := s.galleryRepo.GetByStoryAndUser(ctx, storyID, userID)
	if err != nil {
		if !isNotFound(err) {
			return nil, models.NewInternalError(err)
		}
		story, storyErr := s.storyRepo.GetByIDAndUser(ctx, storyID, userID)
		if storyErr != nil {
			if isNotFound(storyErr) {
				return nil, models.NewNotFoundError("story", storyID)
			}
			return nil, models.NewInternalError(storyErr)
		}
		gallery = &models.Gallery{
			StoryID:       storyID,
			UserID:        userID,
			StoryTitle:    story.Title,
			ColorImageURL: story.Image,
		}
	}

	gallery.ColoringImageURL = coloringImageURL
	if err := s.galleryRepo.Upsert(ctx, gallery); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateGalleryStats(ctx, userID)
	return gallery, nil
}

// DeleteGalleryImage removes the user's gallery row for a story.
func (s *GalleryService) DeleteGalleryImage(ctx context.Context, storyID, userID uint) error {
	gallery, err := s.galleryRepo.GetByStoryAndUser(ctx, storyID, userID)
	if err != nil {
		if isNotFound(err) {
			return models.NewNotFoundError("gallery entry for story", storyID)
		}
		return models.NewInternalError(err)
	}
	if err := s.galleryRepo.Delete(ctx, gallery.ID, userID); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateGalleryStats(ctx, userID)
	return nil
}

// DeleteColoringWork removes a completed coloring work.
func (s *GalleryService) DeleteColoringWork(ctx context.Context, workID, userID uint) error {
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

// Stats summarizes the user's gallery, served through the cache.
func (s *GalleryService) Stats(ctx context.Context, userID uint) (*models.GalleryStats, error) {
	var stats models.GalleryStats
	err := cache.CacheAside(ctx, cache.GalleryStatsKey(userID), &stats, cache.GalleryStatsTTL, func() error {
		stories, err := s.storyRepo.GetWithImageByUserID(ctx, userID)
		if err != nil {
			return err
		}
		works, err := s.coloringRepo.CountWorksByUserID(ctx, userID)
		if err != nil {
			return err
		}
		coloredStories, err := s.galleryRepo.CountColoringByUserID(ctx, userID)
		if err != nil {
			return err
		}
		totalStories, err := s.storyRepo.CountByUserID(ctx, userID)
		if err != nil {
			return err
		}
		// Colored images are completed works plus story pages colored in place.
		stats = models.GalleryStats{
			TotalImages:    int64(len(stories)) + works + coloredStories,
			StoryImages:    int64(len(stories)),
			ColoringImages: works + coloredStories,
			TotalStories:   totalStories,
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &stats, nil
}
