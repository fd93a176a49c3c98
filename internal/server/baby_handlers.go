package server

import (
	"time"

	"storynest/internal/models"
	"storynest/internal/service"

	"github.com/gofiber/fiber/v2"
)

type BabyRequest struct {
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	BirthDate time.Time `json:"birth_date"`
}

// CreateBaby registers the user's baby profile
// @Summary Register a baby profile
// @Tags babies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BabyRequest true "Baby profile"
// @Success 201 {object} models.Baby
// @Failure 400 {object} models.ErrorResponse
// @Router /babies [post]
func (s *Server) CreateBaby(c *fiber.Ctx) error {
	var req BabyRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	baby, err := s.babyService.Create(c.UserContext(), currentUserID(c), service.BabyInput{
		Name:      req.Name,
		Gender:    req.Gender,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(baby)
}

// GetBabies lists the user's baby profiles
// @Summary List baby profiles
// @Tags babies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Baby
// @Router /babies [get]
func (s *Server) GetBabies(c *fiber.Ctx) error {
	babies, err := s.babyService.List(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(babies)
}

// UpdateBaby edits a baby profile
// @Summary Update a baby profile
// @Tags babies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Baby ID"
// @Param request body BabyRequest true "Changes"
// @Success 200 {object} models.Baby
// @Failure 404 {object} models.ErrorResponse
// @Router /babies/{id} [put]
func (s *Server) UpdateBaby(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req BabyRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	baby, err := s.babyService.Update(c.UserContext(), id, currentUserID(c), service.BabyInput{
		Name:      req.Name,
		Gender:    req.Gender,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(baby)
}

// DeleteBaby removes a baby profile
// @Summary Delete a baby profile
// @Tags babies
// @Security BearerAuth
// @Param id path int true "Baby ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /babies/{id} [delete]
func (s *Server) DeleteBaby(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.babyService.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
