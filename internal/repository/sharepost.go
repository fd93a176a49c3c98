package repository

import (
	"context"

	"storynest/internal/cache"
	"storynest/internal/models"

	"gorm.io/gorm"
)

// SharePostRepository defines the interface for share post data operations
type SharePostRepository interface {
	Create(ctx context.Context, post *models.SharePost) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.SharePost, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.SharePost, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.SharePost, error)
	Popular(ctx context.Context, limit int, currentUserID uint) ([]*models.SharePost, error)
	Recent(ctx context.Context, limit int, currentUserID uint) ([]*models.SharePost, error)
	ExistsBySource(ctx context.Context, source models.ShareSource, userID uint) (bool, error)
	DeleteCascade(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	UserStats(ctx context.Context, userID uint) (postCount, totalLikes int64, err error)
}

type sharePostRepository struct {
	db *gorm.DB
}

// NewSharePostRepository creates a new share post repository
func NewSharePostRepository(db *gorm.DB) SharePostRepository {
	return &sharePostRepository{db: db}
}

func (r *sharePostRepository) Create(ctx context.Context, post *models.SharePost) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateFeeds(ctx)
		cache.InvalidateUserStats(ctx, post.UserID)
	}
	return err
}

// applyPostDetails adds subqueries to fetch counts and the viewer's flags in
// a single query. like_count is the cardinality of the like set; it is never
// read from a stored column.
func (r *sharePostRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "share_posts.*, " +
		"(SELECT COUNT(*) FROM share_likes WHERE share_likes.share_post_id = share_posts.id) as like_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.share_post_id = share_posts.id) as comment_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM share_likes WHERE share_likes.share_post_id = share_posts.id AND share_likes.user_id = ?) as liked"+
			", share_posts.user_id = ? as is_owner",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as is_owner")
}

func (r *sharePostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.SharePost, error) {
	var post models.SharePost
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *sharePostRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.SharePost, error) {
	var posts []*models.SharePost
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *sharePostRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.SharePost, error) {
	var posts []*models.SharePost
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Where("share_posts.user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// Popular ranks by like count with recency as the tiebreaker. like_count is a
// SELECT alias from applyPostDetails; referencing it in ORDER BY works at the
// same query level.
func (r *sharePostRepository) Popular(ctx context.Context, limit int, currentUserID uint) ([]*models.SharePost, error) {
	var posts []*models.SharePost
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Order("like_count DESC, created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *sharePostRepository) Recent(ctx context.Context, limit int, currentUserID uint) ([]*models.SharePost, error) {
	var posts []*models.SharePost
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ExistsBySource reports whether the user already shared this source.
func (r *sharePostRepository) ExistsBySource(ctx context.Context, source models.ShareSource, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SharePost{}).
		Where("source_type = ? AND source_id = ? AND user_id = ?", source.Type, source.ID, userID).
		Count(&count).Error
	return count > 0, err
}

// DeleteCascade removes the post along with its comments and likes in one
// transaction, so a crash cannot leave orphaned children.
func (r *sharePostRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("share_post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("share_post_id = ?", id).Delete(&models.ShareLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SharePost{}, id).Error
	})
	if err == nil {
		cache.InvalidateFeeds(ctx)
	}
	return err
}

func (r *sharePostRepository) Like(ctx context.Context, userID, postID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING is atomic and makes a duplicate like
	// a no-op instead of a duplicate key error.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO share_likes (share_post_id, user_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (share_post_id, user_id) DO NOTHING`,
		postID, userID,
	)
	if result.Error == nil {
		cache.InvalidateFeeds(ctx)
	}
	return result.Error
}

func (r *sharePostRepository) Unlike(ctx context.Context, userID, postID uint) error {
	// Hard delete the like record
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("share_post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.ShareLike{}).Error
	if err == nil {
		cache.InvalidateFeeds(ctx)
	}
	return err
}

// ToggleLike flips the user's membership in the post's like set and reports
// the resulting state. The check and the write run in one transaction, so
// concurrent toggles serialize instead of racing the membership check.
func (r *sharePostRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ShareLike{}).
			Where("share_post_id = ? AND user_id = ?", postID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			liked = false
			return tx.Unscoped().
				Where("share_post_id = ? AND user_id = ?", postID, userID).
				Delete(&models.ShareLike{}).Error
		}
		liked = true
		return tx.Exec(
			`INSERT INTO share_likes (share_post_id, user_id, created_at)
			 VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (share_post_id, user_id) DO NOTHING`,
			postID, userID,
		).Error
	})
	if err == nil {
		cache.InvalidateFeeds(ctx)
	}
	return liked, err
}

func (r *sharePostRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShareLike{}).
		Where("share_post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UserStats returns the user's post count and the total likes received
// across all their posts.
func (r *sharePostRepository) UserStats(ctx context.Context, userID uint) (int64, int64, error) {
	var postCount int64
	if err := r.db.WithContext(ctx).
		Model(&models.SharePost{}).
		Where("user_id = ?", userID).
		Count(&postCount).Error; err != nil {
		return 0, 0, err
	}

	var totalLikes int64
	err := r.db.WithContext(ctx).
		Model(&models.ShareLike{}).
		Joins("JOIN share_posts ON share_posts.id = share_likes.share_post_id").
		Where("share_posts.user_id = ?", userID).
		Count(&totalLikes).Error
	return postCount, totalLikes, err
}
