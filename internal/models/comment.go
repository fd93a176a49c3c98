package models

import "time"

// Comment belongs to exactly one share post. Username identifies the author
// for authorization; DisplayName is the human-facing label snapshotted when
// the comment was written (renaming a baby later does not rewrite history).
type Comment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	SharePostID uint       `gorm:"not null;index" json:"share_post_id"`
	SharePost   SharePost  `gorm:"foreignKey:SharePostID" json:"-"`
	UserID      uint       `gorm:"not null" json:"user_id"`
	Username    string     `gorm:"size:100;not null" json:"username"`
	DisplayName string     `gorm:"size:100" json:"display_name"`
	Content     string     `gorm:"size:1000;not null" json:"content"`
	CreatedAt   time.Time  `json:"created_at"`
	// UpdatedAt stays nil until the comment is edited, so clients can show
	// an "edited" marker. Auto-update is off; the service sets it explicitly.
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}
