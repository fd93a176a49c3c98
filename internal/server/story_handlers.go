package server

import (
	"storynest/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateStoryRequest struct {
	Theme string `json:"theme"`
	Voice string `json:"voice"`
}

// GetStoryPresets lists the theme and voice catalog
// @Summary List story presets
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.PresetCatalog
// @Router /stories/presets [get]
func (s *Server) GetStoryPresets(c *fiber.Ctx) error {
	return c.JSON(s.storyService.Presets())
}

// CreateStory generates a new story from a theme
// @Summary Create a story
// @Description Generate story text for the chosen theme and voice
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateStoryRequest true "Theme and voice"
// @Success 201 {object} models.Story
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /stories [post]
func (s *Server) CreateStory(c *fiber.Ctx) error {
	var req CreateStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	story, err := s.storyService.CreateStory(c.UserContext(), currentUserID(c), req.Theme, req.Voice)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

// GetStories lists the user's stories
// @Summary List my stories
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Story
// @Router /stories [get]
func (s *Server) GetStories(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	stories, err := s.storyService.ListStories(c.UserContext(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stories)
}

// GetStory returns one of the user's stories
// @Summary Get a story
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 200 {object} models.Story
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id} [get]
func (s *Server) GetStory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	story, err := s.storyService.GetStory(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(story)
}

// GenerateStoryImage attaches a generated illustration to a story
// @Summary Generate a story illustration
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 200 {object} models.Story
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /stories/{id}/image [post]
func (s *Server) GenerateStoryImage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	story, err := s.storyService.GenerateImage(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(story)
}

// GenerateStoryVoice attaches generated narration audio to a story
// @Summary Generate story narration
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 200 {object} models.Story
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /stories/{id}/voice [post]
func (s *Server) GenerateStoryVoice(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	story, err := s.storyService.GenerateVoice(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(story)
}

// DeleteStory removes a story and its media
// @Summary Delete a story
// @Tags stories
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /stories/{id} [delete]
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.storyService.DeleteStory(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
