package server

import (
	"io"
	"strconv"

	"storynest/internal/models"
	"storynest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CreateTemplateRequest struct {
	StoryID uint `json:"story_id"`
}

// CreateColoringTemplate converts a story illustration into a line-art template
// @Summary Create a coloring template
// @Tags coloring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTemplateRequest true "Source story"
// @Success 201 {object} models.ColoringTemplate
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /coloring/templates [post]
func (s *Server) CreateColoringTemplate(c *fiber.Ctx) error {
	var req CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}
	if req.StoryID == 0 {
		return respondError(c, models.NewValidationError("story_id is required"))
	}

	template, err := s.coloringService.CreateTemplate(c.UserContext(), req.StoryID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(template)
}

// GetColoringTemplates lists the user's coloring templates
// @Summary List coloring templates
// @Tags coloring
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ColoringTemplate
// @Router /coloring/templates [get]
func (s *Server) GetColoringTemplates(c *fiber.Ctx) error {
	templates, err := s.coloringService.ListTemplates(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(templates)
}

// SubmitColoringWork uploads a completed coloring image
// @Summary Submit a coloring work
// @Tags coloring
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Completed image"
// @Param template_id formData int false "Source template ID"
// @Param story_title formData string false "Story title to display"
// @Success 201 {object} models.ColoringWork
// @Failure 400 {object} models.ErrorResponse
// @Router /coloring/works [post]
func (s *Server) SubmitColoringWork(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return respondError(c, models.NewValidationError("image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, models.NewValidationError("could not read the uploaded file"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	in := service.SubmitWorkInput{
		UserID:      currentUserID(c),
		StoryTitle:  c.FormValue("story_title"),
		Content:     content,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	if raw := c.FormValue("template_id"); raw != "" {
		templateID, perr := strconv.ParseUint(raw, 10, 32)
		if perr != nil || templateID == 0 {
			return respondError(c, models.NewValidationError("invalid template id"))
		}
		id := uint(templateID)
		in.TemplateID = &id
	}

	work, err := s.coloringService.SubmitWork(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(work)
}

// GetColoringWorks lists the user's completed coloring works
// @Summary List coloring works
// @Tags coloring
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ColoringWork
// @Router /coloring/works [get]
func (s *Server) GetColoringWorks(c *fiber.Ctx) error {
	works, err := s.coloringService.ListWorks(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(works)
}

// DeleteColoringWork removes a coloring work
// @Summary Delete a coloring work
// @Tags coloring
// @Security BearerAuth
// @Param id path int true "Work ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /coloring/works/{id} [delete]
func (s *Server) DeleteColoringWork(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.coloringService.DeleteWork(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
