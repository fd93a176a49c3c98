package service

import (
	"context"
	"fmt"
	"os"

	"storynest/internal/cache"
	"storynest/internal/generation"
	"storynest/internal/middleware"
	"storynest/internal/models"
	"storynest/internal/repository"
	"storynest/internal/storage"

	"gopkg.in/yaml.v3"
)

// Preset is one selectable story theme or narration voice.
type Preset struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}

// PresetCatalog lists the themes and voices offered to clients. Loaded once
// from the configured YAML file at startup.
type PresetCatalog struct {
	Themes []Preset `yaml:"themes" json:"themes"`
	Voices []Preset `yaml:"voices" json:"voices"`
}

// LoadPresetCatalog reads the catalog from path.
func LoadPresetCatalog(path string) (*PresetCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset catalog: %w", err)
	}
	var catalog PresetCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse preset catalog: %w", err)
	}
	if len(catalog.Themes) == 0 || len(catalog.Voices) == 0 {
		return nil, fmt.Errorf("preset catalog %s must define at least one theme and one voice", path)
	}
	return &catalog, nil
}

// StoryService orchestrates story text, image and voice generation against
// the sidecar and attaches the produced media to owned stories.
type StoryService struct {
	storyRepo   repository.StoryRepository
	galleryRepo repository.GalleryRepository
	generator   generation.Generator
	store       storage.ObjectStorage
	presets     *PresetCatalog
}

func NewStoryService(
	storyRepo repository.StoryRepository,
	galleryRepo repository.GalleryRepository,
	generator generation.Generator,
	store storage.ObjectStorage,
	presets *PresetCatalog,
) *StoryService {
	return &StoryService{
		storyRepo:   storyRepo,
		galleryRepo: galleryRepo,
		generator:   generator,
		store:       store,
		presets:     presets,
	}
}

// Presets returns the theme and voice catalog.
func (s *StoryService) Presets() *PresetCatalog {
	return s.presets
}

func (s *StoryService) validPreset(kind string, key string) bool {
	if s.presets == nil {
		return true
	}
	var pool []Preset
	switch kind {
	case "theme":
		pool = s.presets.Themes
	case "voice":
		pool = s.presets.Voices
	}
	for _, p := range pool {
		if p.Key == key {
			return true
		}
	}
	return false
}

// CreateStory generates the story text for the chosen theme and voice and
// persists it. Image and narration come later through separate calls.
func (s *StoryService) CreateStory(ctx context.Context, userID uint, theme, voice string) (*models.Story, error) {
	if theme == "" {
		return nil, models.NewValidationError("theme is required")
	}
	if !s.validPreset("theme", theme) {
		return nil, models.NewValidationError("unknown story theme")
	}
	if voice != "" && !s.validPreset("voice", voice) {
		return nil, models.NewValidationError("unknown narration voice")
	}

	result, err := s.generator.GenerateStory(ctx, theme, voice)
	if err != nil {
		return nil, err
	}

	story := &models.Story{
		UserID:  userID,
		Theme:   theme,
		Voice:   voice,
		Title:   result.Title,
		Content: result.Content,
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, models.NewInternalError(err)
	}
	return story, nil
}

// GenerateImage produces an illustration for the story and attaches its
// public URL. When the storage upload fails the sidecar-local path is kept as
// a placeholder so the story is not left imageless.
func (s *StoryService) GenerateImage(ctx context.Context, storyID, userID uint) (*models.Story, error) {
	story, err := s.storyRepo.GetByIDAndUser(ctx, storyID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("story", storyID)
		}
		return nil, models.NewInternalError(err)
	}

	imagePath, err := s.generator.GenerateImage(ctx, story.Title, story.Content)
	if err != nil {
		return nil, err
	}

	imageURL := imagePath
	key := fmt.Sprintf("images/%d/story-%d.png", userID, storyID)
	if uploaded, upErr := s.store.UploadFile(ctx, key, imagePath, "image/png"); upErr == nil {
		imageURL = uploaded
	} else {
		middleware.Logger.WarnContext(ctx, "image upload failed, keeping local path",
			"story_id", storyID, "error", upErr)
	}

	story.Image = imageURL
	if err := s.storyRepo.Update(ctx, story); err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateGalleryStats(ctx, userID)
	return story, nil
}

// GenerateVoice narrates the story and attaches the audio URL.
func (s *StoryService) GenerateVoice(ctx context.Context, storyID, userID uint) (*models.Story, error) {
	story, err := s.storyRepo.GetByIDAndUser(ctx, storyID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("story", storyID)
		}
		return nil, models.NewInternalError(err)
	}

	audioPath, err := s.generator.GenerateVoice(ctx, story.Content, story.Voice)
	if err != nil {
		return nil, err
	}

	audioURL := audioPath
	key := fmt.Sprintf("voices/%d/story-%d.mp3", userID, storyID)
	if uploaded, upErr := s.store.UploadFile(ctx, key, audioPath, "audio/mpeg"); upErr == nil {
		audioURL = uploaded
	} else {
		middleware.Logger.WarnContext(ctx, "voice upload failed, keeping local path",
			"story_id", storyID, "error", upErr)
	}

	story.VoiceContent = audioURL
	if err := s.storyRepo.Update(ctx, story); err != nil {
		return nil, models.NewInternalError(err)
	}
	return story, nil
}

// GetStory returns one of the requester's stories.
func (s *StoryService) GetStory(ctx context.Context, storyID, userID uint) (*models.Story, error) {
	story, err := s.storyRepo.GetByIDAndUser(ctx, storyID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("story", storyID)
		}
		return nil, models.NewInternalError(err)
	}
	return story, nil
}

// ListStories pages through the requester's stories, newest first.
func (s *StoryService) ListStories(ctx context.Context, userID uint, limit, offset int) ([]*models.Story, error) {
	limit, offset = normalizePage(limit, offset)
	stories, err := s.storyRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

// DeleteStory removes a story with its gallery row. Stored media cleanup is
// best-effort; a storage failure must not keep the row alive.
func (s *StoryService) DeleteStory(ctx context.Context, storyID, userID uint) error {
	story, err := s.storyRepo.GetByIDAndUser(ctx, storyID, userID)
	if err != nil {
		if isNotFound(err) {
			return models.NewNotFoundError("story", storyID)
		}
		return models.NewInternalError(err)
	}

	if gallery, galErr := s.galleryRepo.GetByStoryAndUser(ctx, storyID, userID); galErr == nil {
		if delErr := s.galleryRepo.Delete(ctx, gallery.ID, userID); delErr != nil {
			return models.NewInternalError(delErr)
		}
	} else if !isNotFound(galErr) {
		return models.NewInternalError(galErr)
	}

	if err := s.storyRepo.Delete(ctx, storyID, userID); err != nil {
		return models.NewInternalError(err)
	}

	for _, key := range []string{
		fmt.Sprintf("images/%d/story-%d.png", userID, storyID),
		fmt.Sprintf("voices/%d/story-%d.mp3", userID, storyID),
		fmt.Sprintf("videos/%d/story-%d.mp4", userID, storyID),
		fmt.Sprintf("thumbnails/%d/story-%d.jpg", userID, storyID),
	} {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			middleware.Logger.WarnContext(ctx, "stored media cleanup failed",
				"story_id", story.ID, "key", key, "error", delErr)
		}
	}
	cache.InvalidateGalleryStats(ctx, userID)
	return nil
}
