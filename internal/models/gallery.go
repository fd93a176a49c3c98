package models

import "time"

// Gallery pairs a story's reference image with the user's colored version.
// At most one row exists per (user, story); writes go through upsert.
type Gallery struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	StoryID          uint      `gorm:"not null;uniqueIndex:idx_gallery_story_user" json:"story_id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_gallery_story_user" json:"user_id"`
	User             User      `gorm:"foreignKey:UserID" json:"-"`
	StoryTitle       string    `gorm:"size:500" json:"story_title"`
	ColorImageURL    string    `gorm:"size:1000" json:"color_image_url"`
	ColoringImageURL string    `gorm:"size:1000" json:"coloring_image_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// GalleryImageSource tags which id-space a GalleryImage belongs to. Story
// entries carry a story id, coloring entries carry a coloring-work id; the
// two are never compared against each other.
type GalleryImageSource string

const (
	GalleryImageSourceStory    GalleryImageSource = "STORY"
	GalleryImageSourceColoring GalleryImageSource = "COLORING_WORK"
)

// GalleryImage is the merged read model served by the gallery aggregator.
type GalleryImage struct {
	ID               uint               `json:"id"`
	Source           GalleryImageSource `json:"source"`
	Title            string             `json:"title"`
	ColorImageURL    string             `json:"color_image_url"`
	ColoringImageURL string             `json:"coloring_image_url,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// GalleryStats summarizes a user's gallery contents.
type GalleryStats struct {
	TotalImages    int64 `json:"total_images"`
	StoryImages    int64 `json:"story_images"`
	ColoringImages int64 `json:"coloring_images"`
	TotalStories   int64 `json:"total_stories"`
}
