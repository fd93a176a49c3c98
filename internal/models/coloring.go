package models

import "time"

// ColoringTemplate is a black-and-white line-art version of a story image,
// one per (user, story).
type ColoringTemplate struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex:idx_coloring_tpl_story_user" json:"user_id"`
	User              User      `gorm:"foreignKey:UserID" json:"-"`
	StoryID           uint      `gorm:"not null;uniqueIndex:idx_coloring_tpl_story_user" json:"story_id"`
	Title             string    `gorm:"size:500" json:"title"`
	OriginalImageURL  string    `gorm:"size:1000" json:"original_image_url"`
	BlackWhiteImageURL string   `gorm:"size:1000" json:"black_white_image_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ColoringWork is a completed coloring submission. It is an owned child of a
// user and does not have to reference a gallery row or template.
type ColoringWork struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	User              User      `gorm:"foreignKey:UserID" json:"-"`
	StoryTitle        string    `gorm:"size:500" json:"story_title"`
	OriginalImageURL  string    `gorm:"size:1000" json:"original_image_url"`
	CompletedImageURL string    `gorm:"size:1000;not null" json:"completed_image_url"`
	TemplateID        *uint     `json:"template_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
