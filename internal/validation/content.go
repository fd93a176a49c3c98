package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxCommentLength bounds comment content after trimming.
const MaxCommentLength = 1000

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

var reservedUsernames = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"auth":     {},
	"share":    {},
	"gallery":  {},
	"stories":  {},
	"coloring": {},
	"users":    {},
	"comments": {},
	"babies":   {},
	"ws":       {},
	"swagger":  {},
	"metrics":  {},
	"login":    {},
	"signup":   {},
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, hyphens, and underscores")
	}

	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return fmt.Errorf("username is reserved")
	}

	return nil
}

// ValidateNickname allows any printable nickname up to 30 characters.
// Hangul and other non-ASCII names are counted by rune, not byte.
func ValidateNickname(nickname string) error {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return fmt.Errorf("nickname cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > 30 {
		return fmt.Errorf("nickname must be at most 30 characters")
	}
	return nil
}

// NormalizeCommentContent trims the content and validates the result.
// The returned string is what should be persisted.
func NormalizeCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", fmt.Errorf("comment content cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return "", fmt.Errorf("comment content must be at most %d characters", MaxCommentLength)
	}
	return trimmed, nil
}

// ValidatePassword enforces the minimum password policy for local signups.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return fmt.Errorf("password must be at most 72 characters")
	}
	return nil
}
