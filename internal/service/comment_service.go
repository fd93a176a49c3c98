package service

import (
	"context"
	"time"

	"storynest/internal/middleware"
	"storynest/internal/models"
	"storynest/internal/notifications"
	"storynest/internal/repository"
	"storynest/internal/validation"
)

// CommentService owns the comment lifecycle on share posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	shareRepo   repository.SharePostRepository
	userRepo    repository.UserRepository
	resolver    *DisplayNameResolver
	notifier    *notifications.Notifier
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	shareRepo repository.SharePostRepository,
	userRepo repository.UserRepository,
	resolver *DisplayNameResolver,
	notifier *notifications.Notifier,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		shareRepo:   shareRepo,
		userRepo:    userRepo,
		resolver:    resolver,
		notifier:    notifier,
	}
}

// CommentResponse is the API view of a comment. UpdatedAt is present only
// after an edit.
type CommentResponse struct {
	ID          uint       `json:"id"`
	SharePostID uint       `json:"share_post_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toCommentResponse(c *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:          c.ID,
		SharePostID: c.SharePostID,
		Username:    c.Username,
		DisplayName: c.DisplayName,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Create adds a comment to an existing post. The author's display name is
// resolved and snapshotted at write time.
func (s *CommentService) Create(ctx context.Context, postID, userID uint, content string) (*CommentResponse, error) {
	normalized, err := validation.NormalizeCommentContent(content)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.shareRepo.GetByID(ctx, postID, 0); err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("share post", postID)
		}
		return nil, models.NewInternalError(err)
	}

	user, err := s.userRepo.GetByIDWithBabies(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("user", userID)
		}
		return nil, models.NewInternalError(err)
	}

	comment := &models.Comment{
		SharePostID: postID,
		UserID:      userID,
		Username:    user.Username,
		DisplayName: s.resolver.Resolve(ctx, user),
		Content:     normalized,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	if s.notifier != nil {
		if err := s.notifier.PublishCommentCreated(ctx, postID, comment.DisplayName); err != nil {
			middleware.Logger.WarnContext(ctx, "feed event publish failed", "post_id", postID, "error", err)
		}
	}

	return toCommentResponse(comment), nil
}

// List returns a post's comments, newest first.
func (s *CommentService) List(ctx context.Context, postID uint, limit, offset int) ([]*CommentResponse, error) {
	if _, err := s.shareRepo.GetByID(ctx, postID, 0); err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("share post", postID)
		}
		return nil, models.NewInternalError(err)
	}

	limit, offset = normalizePage(limit, offset)
	comments, err := s.commentRepo.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	out := make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out, nil
}

// Count returns the number of comments on a post.
func (s *CommentService) Count(ctx context.Context, postID uint) (int64, error) {
	count, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Update rewrites a comment's content. Only the author may edit; the edit
// timestamp is set here rather than by the ORM so it stays nil for comments
// that were never touched.
func (s *CommentService) Update(ctx context.Context, commentID, userID uint, content string) (*CommentResponse, error) {
	normalized, err := validation.NormalizeCommentContent(content)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("comment", commentID)
		}
		return nil, models.NewInternalError(err)
	}

	if comment.UserID != userID {
		return nil, models.NewForbiddenError("only the author can edit this comment")
	}

	now := time.Now()
	comment.Content = normalized
	comment.UpdatedAt = &now
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return toCommentResponse(comment), nil
}

// Delete removes a comment. Only the author may delete it.
func (s *CommentService) Delete(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if isNotFound(err) {
			return models.NewNotFoundError("comment", commentID)
		}
		return models.NewInternalError(err)
	}

	if comment.UserID != userID {
		return models.NewForbiddenError("only the author can delete this comment")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
