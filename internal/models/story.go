package models

import "time"

// Story is a generated fairy tale owned by a single user. Image and
// VoiceContent are attached by later generation steps and stay empty until
// then; a story is eligible for sharing only once both are present.
type Story struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	Theme        string    `gorm:"size:500;not null;index" json:"theme"`
	Voice        string    `gorm:"size:100" json:"voice"`
	Title        string    `gorm:"size:500;not null;index" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Image        string    `gorm:"size:500" json:"image"`
	VoiceContent string    `gorm:"size:500" json:"voice_content"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasShareableMedia reports whether the story carries both the image and the
// narrated audio required to build a share video.
func (s *Story) HasShareableMedia() bool {
	return s.Image != "" && s.VoiceContent != ""
}
