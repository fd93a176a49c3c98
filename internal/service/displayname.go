// Package service implements the application's business logic.
package service

import (
	"context"
	"strings"

	"storynest/internal/middleware"
	"storynest/internal/models"
	"storynest/internal/repository"
)

// DisplayNameResolver computes the human-facing author label shown on share
// posts and comments. The result is snapshotted into the row at write time;
// later profile or baby changes never rewrite existing content.
type DisplayNameResolver struct {
	babyRepo repository.BabyRepository
}

func NewDisplayNameResolver(babyRepo repository.BabyRepository) *DisplayNameResolver {
	return &DisplayNameResolver{babyRepo: babyRepo}
}

// Resolve applies the fallback chain: the user's first baby name with a
// parent suffix, then the nickname, then the username, each with the
// honorific suffix. A baby lookup failure degrades to the next rung instead
// of failing the write.
func (r *DisplayNameResolver) Resolve(ctx context.Context, user *models.User) string {
	if name := r.firstBabyName(ctx, user); name != "" {
		return name + "의 부모"
	}
	if nickname := strings.TrimSpace(user.Nickname); nickname != "" {
		return nickname + "님"
	}
	return user.Username + "님"
}

func (r *DisplayNameResolver) firstBabyName(ctx context.Context, user *models.User) string {
	// Preloaded babies (ordered by creation) win over a fresh lookup.
	if len(user.Babies) > 0 {
		return strings.TrimSpace(user.Babies[0].Name)
	}
	if r.babyRepo == nil {
		return ""
	}
	baby, err := r.babyRepo.FirstByUserID(ctx, user.ID)
	if err != nil {
		if !isNotFound(err) {
			middleware.Logger.WarnContext(ctx, "baby lookup failed during display name resolution",
				"user_id", user.ID, "error", err)
		}
		return ""
	}
	return strings.TrimSpace(baby.Name)
}
