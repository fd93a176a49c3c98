package server

import (
	"storynest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetGallery returns all of the user's gallery images
// @Summary List my gallery
// @Description Story illustrations and completed coloring works, newest first
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.GalleryImage
// @Router /gallery [get]
func (s *Server) GetGallery(c *fiber.Ctx) error {
	images, err := s.galleryService.UserGalleryImages(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(images)
}

// GetGalleryStories returns only story illustrations
// @Summary List story illustrations
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.GalleryImage
// @Router /gallery/stories [get]
func (s *Server) GetGalleryStories(c *fiber.Ctx) error {
	images, err := s.galleryService.UserStoryImages(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(images)
}

// GetGalleryColoring returns only completed coloring works
// @Summary List coloring works in the gallery
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.GalleryImage
// @Router /gallery/coloring [get]
func (s *Server) GetGalleryColoring(c *fiber.Ctx) error {
	images, err := s.galleryService.UserColoringWorks(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(images)
}

// GetGalleryStats returns gallery counters for the user
// @Summary Gallery statistics
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.GalleryStats
// @Router /gallery/stats [get]
func (s *Server) GetGalleryStats(c *fiber.Ctx) error {
	stats, err := s.galleryService.Stats(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetGalleryEntry returns the gallery row for one story
// @Summary Get a gallery entry
// @Tags gallery
// @Produce json
// @Security BearerAuth
// @Param storyId path int true "Story ID"
// @Success 200 {object} models.Gallery
// @Failure 404 {object} models.ErrorResponse
// @Router /gallery/{storyId} [get]
func (s *Server) GetGalleryEntry(c *fiber.Ctx) error {
	storyID, err := parseID(c, "storyId")
	if err != nil {
		return nil
	}

	entry, err := s.galleryService.StoryGalleryImage(c.UserContext(), storyID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

type UpdateColoringRequest struct {
	ColoringImageURL string `json:"coloring_image_url"`
}

// UpdateGalleryColoring attaches a colored image to a story's gallery entry
// @Summary Save a coloring result
// @Tags gallery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param storyId path int true "Story ID"
// @Param request body UpdateColoringRequest true "Colored image URL"
// @Success 200 {object} models.Gallery
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /gallery/{storyId}/coloring [put]
func (s *Server) UpdateGalleryColoring(c *fiber.Ctx) error {
	storyID, err := parseID(c, "storyId")
	if err != nil {
		return nil
	}

	var req UpdateColoringRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	entry, err := s.galleryService.UpdateColoringImage(
		c.UserContext(), storyID, currentUserID(c), req.ColoringImageURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// DeleteGalleryEntry removes a story's gallery row
// @Summary Delete a gallery entry
// @Tags gallery
// @Security BearerAuth
// @Param storyId path int true "Story ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /gallery/{storyId} [delete]
func (s *Server) DeleteGalleryEntry(c *fiber.Ctx) error {
	storyID, err := parseID(c, "storyId")
	if err != nil {
		return nil
	}

	if err := s.galleryService.DeleteGalleryImage(c.UserContext(), storyID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
