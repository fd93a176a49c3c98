package models

import "time"

// ShareSourceType discriminates where a share post originated.
type ShareSourceType string

const (
	// ShareSourceStory marks posts built from a story's generated video.
	ShareSourceStory ShareSourceType = "STORY"
	// ShareSourceGallery marks posts built from a gallery image.
	ShareSourceGallery ShareSourceType = "GALLERY"
	// ShareSourceColoringWork marks posts built from a completed coloring work.
	ShareSourceColoringWork ShareSourceType = "COLORING_WORK"
)

// ShareSource is the tagged origin of a share post. The id refers to a
// different table depending on the type: Story.ID for STORY, Gallery.ID for
// GALLERY (not the story id) and ColoringWork.ID for COLORING_WORK. Carrying
// the pair as one value keeps the conditional meaning explicit.
type ShareSource struct {
	Type ShareSourceType
	ID   uint
}

// StorySource returns the source pointer for a story-backed post.
func StorySource(storyID uint) ShareSource {
	return ShareSource{Type: ShareSourceStory, ID: storyID}
}

// GallerySource returns the source pointer for a gallery-backed post. The id
// is the gallery row's own primary key.
func GallerySource(galleryID uint) ShareSource {
	return ShareSource{Type: ShareSourceGallery, ID: galleryID}
}

// ColoringWorkSource returns the source pointer for a coloring-work post.
func ColoringWorkSource(workID uint) ShareSource {
	return ShareSource{Type: ShareSourceColoringWork, ID: workID}
}

// SharePost is a persisted, likeable and commentable artifact derived from a
// story, a gallery image or a coloring work. DisplayName is snapshotted at
// creation time and never recomputed. VideoURL is the empty string (not NULL)
// for non-story sources so "intentionally no video" stays distinguishable
// from "video missing".
type SharePost struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	User         User            `gorm:"foreignKey:UserID" json:"-"`
	StoryTitle   string          `gorm:"size:500" json:"story_title"`
	VideoURL     string          `gorm:"size:1000;not null;default:''" json:"video_url"`
	ImageURL     string          `gorm:"size:1000" json:"image_url"`
	ThumbnailURL string          `gorm:"size:1000" json:"thumbnail_url"`
	SourceType   ShareSourceType `gorm:"size:50;not null" json:"source_type"`
	SourceID     uint            `gorm:"not null" json:"source_id"`
	DisplayName  string          `gorm:"size:100" json:"display_name"`
	CreatedAt    time.Time       `json:"created_at"`

	// LikeCount is never persisted; it is the cardinality of the like set,
	// computed at query time, so it cannot drift or go negative.
	LikeCount int `gorm:"->" json:"like_count"`
	// CommentCount is not persisted; computed at query time.
	CommentCount int `gorm:"->" json:"comment_count"`
	// Liked indicates whether the requesting user liked this post (computed).
	Liked bool `gorm:"->" json:"liked"`
	// IsOwner indicates whether the requesting user owns this post (computed).
	IsOwner bool `gorm:"->" json:"is_owner"`
}

// Source reconstructs the tagged origin of the post.
func (p *SharePost) Source() ShareSource {
	return ShareSource{Type: p.SourceType, ID: p.SourceID}
}

// ShareLike is one user's like on one share post. The composite unique index
// makes a duplicate like a no-op at the storage layer.
type ShareLike struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SharePostID uint      `gorm:"not null;uniqueIndex:idx_share_like_post_user" json:"share_post_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_share_like_post_user" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserShareStats summarizes a user's sharing activity.
type UserShareStats struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	PostCount   int64     `json:"post_count"`
	TotalLikes  int64     `json:"total_likes"`
	JoinedAt    time.Time `json:"joined_at"`
}
