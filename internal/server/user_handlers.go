package server

import (
	"io"

	"storynest/internal/models"
	"storynest/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile returns the authenticated user's profile
// @Summary Get my profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetMe(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

type UpdateProfileRequest struct {
	Nickname string `json:"nickname"`
}

// UpdateMyProfile changes profile fields
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile changes"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   currentUserID(c),
		Nickname: req.Nickname,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UploadProfileImage replaces the avatar with an uploaded image
// @Summary Upload a profile image
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file (jpeg, png or webp)"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me/profile-image [post]
func (s *Server) UploadProfileImage(c *fiber.Ctx) error {
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

	user, err := s.userService.UpdateProfileImage(
		c.UserContext(), currentUserID(c), content, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
