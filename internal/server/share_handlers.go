package server

import (
	"github.com/gofiber/fiber/v2"
)

// ShareStory publishes a story's video to the community feed
// @Summary Share a story
// @Description Render the story's video and publish it as a share post
// @Tags share
// @Produce json
// @Security BearerAuth
// @Param storyId path int true "Story ID"
// @Success 201 {object} service.SharePostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /share/story/{storyId} [post]
func (s *Server) ShareStory(c *fiber.Ctx) error {
	storyID, err := parseID(c, "storyId")
	if err != nil {
		return nil
	}

	post, err := s.shareService.ShareFromStory(c.UserContext(), storyID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ShareGalleryImage publishes a gallery image to the community feed
// @Summary Share a gallery image
// @Tags share
// @Produce json
// @Security BearerAuth
// @Param storyId path int true "Story ID"
// @Success 201 {object} service.SharePostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /share/gallery/{storyId} [post]
func (s *Server) ShareGalleryImage(c *fiber.Ctx) error {
	storyID, err := parseID(c, "storyId")
	if err != nil {
		return nil
	}

	post, err := s.shareService.ShareFromGallery(c.UserContext(), storyID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ShareColoringWork publishes a completed coloring work to the community feed
// @Summary Share a coloring work
// @Tags share
// @Produce json
// @Security BearerAuth
// @Param workId path int true "Coloring work ID"
// @Success 201 {object} service.SharePostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /share/coloring/{workId} [post]
func (s *Server) ShareColoringWork(c *fiber.Ctx) error {
	workID, err := parseID(c, "workId")
	if err != nil {
		return nil
	}

	post, err := s.shareService.ShareFromColoringWork(c.UserContext(), workID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetSharePosts lists the public feed
// @Summary List share posts
// @Tags share
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} service.SharePostResponse
// @Router /share/posts [get]
func (s *Server) GetSharePosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	posts, err := s.shareService.AllPosts(c.UserContext(), page.Limit, page.Offset, optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetMySharePosts lists the authenticated user's posts
// @Summary List my share posts
// @Tags share
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} service.SharePostResponse
// @Router /share/posts/my [get]
func (s *Server) GetMySharePosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	posts, err := s.shareService.MyPosts(c.UserContext(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPopularSharePosts lists posts ranked by like count
// @Summary List popular share posts
// @Tags share
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} service.SharePostResponse
// @Router /share/posts/popular [get]
func (s *Server) GetPopularSharePosts(c *fiber.Ctx) error {
	page := parsePagination(c, 10)
	posts, err := s.shareService.PopularPosts(c.UserContext(), page.Limit, optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetRecentSharePosts lists the newest posts
// @Summary List recent share posts
// @Tags share
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} service.SharePostResponse
// @Router /share/posts/recent [get]
func (s *Server) GetRecentSharePosts(c *fiber.Ctx) error {
	page := parsePagination(c, 10)
	posts, err := s.shareService.RecentPosts(c.UserContext(), page.Limit, optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetSharePost returns a single share post
// @Summary Get a share post
// @Tags share
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.SharePostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /share/posts/{id} [get]
func (s *Server) GetSharePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.shareService.PostByID(c.UserContext(), id, optionalUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeleteSharePost removes a post the user authored
// @Summary Delete a share post
// @Tags share
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /share/posts/{id} [delete]
func (s *Server) DeleteSharePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.shareService.DeleteSharePost(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleSharePostLike likes or unlikes a post
// @Summary Toggle a like
// @Description Likes the post, or removes the like when already liked
// @Tags share
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} service.SharePostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /share/posts/{id}/like [post]
func (s *Server) ToggleSharePostLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.shareService.ToggleLike(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetUserShareStats returns public posting stats for a user
// @Summary Get a user's share statistics
// @Tags share
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.UserShareStats
// @Failure 404 {object} models.ErrorResponse
// @Router /share/users/{username}/stats [get]
func (s *Server) GetUserShareStats(c *fiber.Ctx) error {
	stats, err := s.shareService.UserStats(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
