package service

import (
	"context"
	"fmt"
	"time"

	"storynest/internal/cache"
	"storynest/internal/generation"
	"storynest/internal/middleware"
	"storynest/internal/models"
	"storynest/internal/notifications"
	"storynest/internal/observability"
	"storynest/internal/repository"
	"storynest/internal/storage"
)

// ShareService owns the share post lifecycle: creating posts from stories,
// gallery images and coloring works, the like toggle, deletion and the feeds.
type ShareService struct {
	shareRepo    repository.SharePostRepository
	storyRepo    repository.StoryRepository
	galleryRepo  repository.GalleryRepository
	coloringRepo repository.ColoringRepository
	userRepo     repository.UserRepository
	resolver     *DisplayNameResolver
	generator    generation.Generator
	store        storage.ObjectStorage
	notifier     *notifications.Notifier
}

func NewShareService(
	shareRepo repository.SharePostRepository,
	storyRepo repository.StoryRepository,
	galleryRepo repository.GalleryRepository,
	coloringRepo repository.ColoringRepository,
	userRepo repository.UserRepository,
	resolver *DisplayNameResolver,
	generator generation.Generator,
	store storage.ObjectStorage,
	notifier *notifications.Notifier,
) *ShareService {
	return &ShareService{
		shareRepo:    shareRepo,
		storyRepo:    storyRepo,
		galleryRepo:  galleryRepo,
		coloringRepo: coloringRepo,
		userRepo:     userRepo,
		resolver:     resolver,
		generator:    generator,
		store:        store,
		notifier:     notifier,
	}
}

// SharePostResponse is the feed DTO. Liked and IsOwner are relative to the
// requesting user and false for anonymous viewers.
type SharePostResponse struct {
	ID           uint                   `json:"id"`
	DisplayName  string                 `json:"display_name"`
	StoryTitle   string                 `json:"story_title"`
	VideoURL     string                 `json:"video_url"`
	ImageURL     string                 `json:"image_url"`
	ThumbnailURL string                 `json:"thumbnail_url"`
	SourceType   models.ShareSourceType `json:"source_type"`
	LikeCount    int                    `json:"like_count"`
	Liked        bool                   `json:"liked"`
	IsOwner      bool                   `json:"is_owner"`
	CommentCount int                    `json:"comment_count"`
	CreatedAt    time.Time              `json:"created_at"`
}

func toShareResponse(post *models.SharePost) *SharePostResponse {
	return &SharePostResponse{
		ID:           post.ID,
		DisplayName:  post.DisplayName,
		StoryTitle:   post.StoryTitle,
		VideoURL:     post.VideoURL,
		ImageURL:     post.ImageURL,
		ThumbnailURL: post.ThumbnailURL,
		SourceType:   post.SourceType,
		LikeCount:    post.LikeCount,
		Liked:        post.Liked,
		IsOwner:      post.IsOwner,
		CommentCount: post.CommentCount,
		CreatedAt:    post.CreatedAt,
	}
}

func toShareResponses(posts []*models.SharePost) []*SharePostResponse {
	out := make([]*SharePostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toShareResponse(p))
	}
	return out
}

// ShareFromStory publishes a story as a feed post. The story must belong to
// the requester and carry both generated image and narration; video synthesis
// failure aborts the share. Only thumbnail extraction is allowed to degrade,
// falling back to the story image.
func (s *ShareService) ShareFromStory(ctx context.Context, storyID, userID uint) (*SharePostResponse, error) {
	user, err := s.userRepo.GetByIDWithBabies(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("user", userID)
		}
		return nil, models.NewInternalError(err)
	}

	story, err := s.storyRepo.GetByIDAndUser(ctx, storyID, userID)
	if err != nil {
		// A story owned by someone else reads the same as a missing one.
		if isNotFound(err) {
			return nil, models.NewNotFoundError("story", storyID)
		}
		return nil, models.NewInternalError(err)
	}

	if !story.HasShareableMedia() {
		return nil, models.NewMissingMediaError("story needs both an image and a voice recording to be shared")
	}

	source := models.StorySource(storyID)
	if err := s.ensureNotShared(ctx, source, userID); err != nil {
		return nil, err
	}

	videoPath, err := s.generator.CreateVideo(ctx, story.Image, story.VoiceContent, story.Title)
	if err != nil {
		return nil, err
	}

	videoKey := fmt.Sprintf("videos/%d/story-%d.mp4", userID, storyID)
	videoURL, err := s.store.UploadFile(ctx, videoKey, videoPath, "video/mp4")
	if err != nil {
		return nil, models.NewDependencyError("failed to store synthesized video", err)
	}

	// Thumbnail degradation is deliberate: the story image is always a valid
	// stand-in, while a missing video is not.
	thumbnailURL := story.Image
	if thumbPath, thumbErr := s.generator.CreateThumbnail(ctx, videoPath); thumbErr == nil {
		thumbKey := fmt.Sprintf("thumbnails/%d/story-%d.jpg", userID, storyID)
		if uploaded, upErr := s.store.UploadFile(ctx, thumbKey, thumbPath, "image/jpeg"); upErr == nil {
			thumbnailURL = uploaded
		} else {
			middleware.Logger.WarnContext(ctx, "thumbnail upload failed, using story image",
				"story_id", storyID, "error", upErr)
		}
	} else {
		middleware.Logger.WarnContext(ctx, "thumbnail extraction failed, using story image",
			"story_id", storyID, "error", thumbErr)
	}

	post := &models.SharePost{
		UserID:       userID,
		StoryTitle:   story.Title,
		VideoURL:     videoURL,
		ImageURL:     story.Image,
		ThumbnailURL: thumbnailURL,
		SourceType:   source.Type,
		SourceID:     source.ID,
		DisplayName:  s.resolver.Resolve(ctx, user),
	}

	return s.persistPost(ctx, post, userID)
}

// ShareFromGallery publishes a gallery image. Posts created this way carry no
// video; VideoURL is the empty string on purpose. SourceID is the gallery
// row's own primary key, not the story id.
func (s *ShareService) ShareFromGallery(ctx context.Context, storyID, userID uint) (*SharePostResponse, error) {
	user, err := s.userRepo.GetByIDWithBabies(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("user", userID)
		}
		return nil, models.NewInternalError(err)
	}

	gallery, err := s.galleryRepo.GetByStoryAndUser(ctx, storyID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("gallery entry for story", storyID)
		}
		return nil, models.NewInternalError(err)
	}

	image := gallery.ColoringImageURL
	if image == "" {
		image = gallery.ColorImageURL
	}
	if image == "" {
		return nil, models.NewMissingMediaError("gallery entry has no image to share")
	}

	source := models.GallerySource(gallery.ID)
	if err := s.ensureNotShared(ctx, source, userID); err != nil {
		return nil, err
	}

	post := &models.SharePost{
		UserID:       userID,
		StoryTitle:   gallery.StoryTitle,
		VideoURL:     "",
		ImageURL:     image,
		ThumbnailURL: image,
		SourceType:   source.Type,
		SourceID:     source.ID,
		DisplayName:  s.resolver.Resolve(ctx, user),
	}

	return s.persistPost(ctx, post, userID)
}

// ShareFromColoringWork publishes a completed coloring work.
func (s *ShareService) ShareFromColoringWork(ctx context.Context, workID, userID uint) (*SharePostResponse, error) {
	user, err := s.userRepo.GetByIDWithBabies(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("user", userID)
		}
		return nil, models.NewInternalError(err)
	}

	work, err := s.coloringRepo.GetWorkByIDAndUser(ctx, workID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("coloring work", workID)
		}
		return nil, models.NewInternalError(err)
	}

	if work.CompletedImageURL == "" {
		return nil, models.NewMissingMediaError("coloring work has no completed image")
	}

	source := models.ColoringWorkSource(workID)
	if err := s.ensureNotShared(ctx, source, userID); err != nil {
		return nil, err
	}

	post := &models.SharePost{
		UserID:       userID,
		StoryTitle:   work.StoryTitle,
		VideoURL:     "",
		ImageURL:     work.CompletedImageURL,
		ThumbnailURL: work.CompletedImageURL,
		SourceType:   source.Type,
		SourceID:     source.ID,
		DisplayName:  s.resolver.Resolve(ctx, user),
	}

	return s.persistPost(ctx, post, userID)
}

func (s *ShareService) ensureNotShared(ctx context.Context, source models.ShareSource, userID uint) error {
	exists, err := s.shareRepo.ExistsBySource(ctx, source, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if exists {
		return models.NewValidationError("this content has already been shared")
	}
	return nil
}

func (s *ShareService) persistPost(ctx context.Context, post *models.SharePost, userID uint) (*SharePostResponse, error) {
	if err := s.shareRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.SharePostsCreated.WithLabelValues(string(post.SourceType)).Inc()

	if s.notifier != nil {
		if err := s.notifier.PublishPostCreated(ctx, post.ID, post.DisplayName, post.StoryTitle); err != nil {
			middleware.Logger.WarnContext(ctx, "feed event publish failed", "post_id", post.ID, "error", err)
		}
	}

	created, err := s.shareRepo.GetByID(ctx, post.ID, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return toShareResponse(created), nil
}

// DeleteSharePost removes the post with its comments and likes. Only the
// owner may delete; unlike ownership-scoped lookups, the post's existence is
// public, so a non-owner gets Forbidden rather than NotFound.
func (s *ShareService) DeleteSharePost(ctx context.Context, postID, userID uint) error {
	post, err := s.shareRepo.GetByID(ctx, postID, userID)
	if err != nil {
		if isNotFound(err) {
			return models.NewNotFoundError("share post", postID)
		}
		return models.NewInternalError(err)
	}

	if post.UserID != userID {
		return models.NewForbiddenError("only the author can delete this post")
	}

	if err := s.shareRepo.DeleteCascade(ctx, postID); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUserStats(ctx, userID)
	return nil
}

// ToggleLike flips the requester's like on the post and returns the
// refreshed view. Repeating the call flips it back; the count is the set
// cardinality and cannot drift.
func (s *ShareService) ToggleLike(ctx context.Context, postID, userID uint) (*SharePostResponse, error) {
	if _, err := s.shareRepo.GetByID(ctx, postID, 0); err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("share post", postID)
		}
		return nil, models.NewInternalError(err)
	}

	if _, err := s.shareRepo.ToggleLike(ctx, userID, postID); err != nil {
		return nil, models.NewInternalError(err)
	}

	post, err := s.shareRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if s.notifier != nil {
		if err := s.notifier.PublishPostLiked(ctx, postID, post.LikeCount); err != nil {
			middleware.Logger.WarnContext(ctx, "feed event publish failed", "post_id", postID, "error", err)
		}
	}
	cache.InvalidateUserStats(ctx, post.UserID)

	return toShareResponse(post), nil
}

// AllPosts lists the shared feed, newest first.
func (s *ShareService) AllPosts(ctx context.Context, limit, offset int, requesterID uint) ([]*SharePostResponse, error) {
	limit, offset = normalizePage(limit, offset)
	posts, err := s.shareRepo.List(ctx, limit, offset, requesterID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return toShareResponses(posts), nil
}

// MyPosts lists the requester's own posts.
func (s *ShareService) MyPosts(ctx context.Context, userID uint, limit, offset int) ([]*SharePostResponse, error) {
	limit, offset = normalizePage(limit, offset)
	posts, err := s.shareRepo.GetByUserID(ctx, userID, limit, offset, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return toShareResponses(posts), nil
}

func (s *ShareService) PostByID(ctx context.Context, postID, requesterID uint) (*SharePostResponse, error) {
	post, err := s.shareRepo.GetByID(ctx, postID, requesterID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("share post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return toShareResponse(post), nil
}

// PopularPosts returns the top posts by like count. Anonymous requests are
// served through the cache; authenticated ones bypass it so the personalized
// liked/is_owner flags stay correct.
func (s *ShareService) PopularPosts(ctx context.Context, limit int, requesterID uint) ([]*SharePostResponse, error) {
	limit, _ = normalizePage(limit, 0)

	if requesterID == 0 {
		var cached []*SharePostResponse
		err := cache.CacheAside(ctx, cache.PopularPostsKey(limit), &cached, cache.PopularPostsTTL, func() error {
			posts, err := s.shareRepo.Popular(ctx, limit, 0)
			if err != nil {
				return err
			}
			cached = toShareResponses(posts)
			return nil
		})
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return cached, nil
	}

	posts, err := s.shareRepo.Popular(ctx, limit, requesterID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return toShareResponses(posts), nil
}

// RecentPosts returns the newest posts.
func (s *ShareService) RecentPosts(ctx context.Context, limit int, requesterID uint) ([]*SharePostResponse, error) {
	limit, _ = normalizePage(limit, 0)

	if requesterID == 0 {
		var cached []*SharePostResponse
		err := cache.CacheAside(ctx, cache.RecentPostsKey(limit), &cached, cache.RecentPostsTTL, func() error {
			posts, err := s.shareRepo.Recent(ctx, limit, 0)
			if err != nil {
				return err
			}
			cached = toShareResponses(posts)
			return nil
		})
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return cached, nil
	}

	posts, err := s.shareRepo.Recent(ctx, limit, requesterID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return toShareResponses(posts), nil
}

// UserStats summarizes a user's sharing activity by username.
func (s *ShareService) UserStats(ctx context.Context, username string) (*models.UserShareStats, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("user", username)
		}
		return nil, models.NewInternalError(err)
	}

	var stats models.UserShareStats
	cacheErr := cache.CacheAside(ctx, cache.UserStatsKey(user.ID), &stats, cache.UserStatsTTL, func() error {
		posts, likes, err := s.shareRepo.UserStats(ctx, user.ID)
		if err != nil {
			return err
		}
		stats = models.UserShareStats{
			Username:    user.Username,
			DisplayName: s.resolver.Resolve(ctx, user),
			PostCount:   posts,
			TotalLikes:  likes,
			JoinedAt:    user.CreatedAt,
		}
		return nil
	})
	if cacheErr != nil {
		return nil, models.NewInternalError(cacheErr)
	}
	return &stats, nil
}
