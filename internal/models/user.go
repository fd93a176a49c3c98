// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account in the Storynest application. Username is the
// sole key used by all social operations; nickname, email and the OAuth
// provider ids are each globally unique on their own.
type User struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Username        string  `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Nickname        string  `gorm:"uniqueIndex;size:100;not null" json:"nickname"`
	Email           *string `gorm:"uniqueIndex;size:200" json:"email,omitempty"`
	HashedPassword  string  `gorm:"size:512" json:"-"`
	GoogleID        *string `gorm:"uniqueIndex;size:100" json:"-"`
	KakaoID         *string `gorm:"uniqueIndex;size:100" json:"-"`
	ProfileImageURL string  `gorm:"size:500" json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Babies are ordered by creation time; the first one drives the
	// display-name fallback chain.
	Babies []Baby `gorm:"foreignKey:UserID" json:"babies,omitempty"`
}
