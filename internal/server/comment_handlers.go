package server

import (
	"storynest/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CommentRequest struct {
	Content string `json:"content"`
}

// GetComments lists comments on a post
// @Summary List comments
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} service.CommentResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /share/comments/{postId} [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	comments, err := s.commentService.List(c.UserContext(), postID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// GetCommentCount returns the number of comments on a post
// @Summary Count comments
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} models.ErrorResponse
// @Router /share/comments/{postId}/count [get]
func (s *Server) GetCommentCount(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	count, err := s.commentService.Count(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// CreateComment adds a comment to a post
// @Summary Create a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body CommentRequest true "Comment content"
// @Success 201 {object} service.CommentResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /share/comments/{postId} [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	comment, err := s.commentService.Create(c.UserContext(), postID, currentUserID(c), req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment edits a comment the user authored
// @Summary Update a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Param request body CommentRequest true "New content"
// @Success 200 {object} service.CommentResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /share/comments/{commentId} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	comment, err := s.commentService.Update(c.UserContext(), commentID, currentUserID(c), req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment removes a comment the user authored
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /share/comments/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.UserContext(), commentID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
