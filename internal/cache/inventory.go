package cache

import (
	"context"
	"fmt"
	"time"
)

// Key formats. Ranked feeds are anonymous (no per-user variants) because
// liked/is_owner flags are only computed for the personalized list endpoints,
// which bypass the cache.
const (
	PopularPostsKeyPrefix = "share:popular:%d"
	RecentPostsKeyPrefix  = "share:recent:%d"
	UserStatsKeyPrefix    = "share:stats:user:%d"
	GalleryStatsKeyPrefix = "gallery:stats:user:%d"
	PresetCatalogKey      = "story:presets"
	LullabyMusicKeyPrefix = "lullaby:music:%s"
	LullabyVideoKeyPrefix = "lullaby:video:%s"
)

const (
	PopularPostsTTL = 2 * time.Minute
	RecentPostsTTL  = 1 * time.Minute
	UserStatsTTL    = 5 * time.Minute
	GalleryStatsTTL = 5 * time.Minute
	// Jamendo and YouTube results move slowly; a longer TTL spares the
	// sidecar from repeat lookups.
	LullabyTTL = 30 * time.Minute
)

func PopularPostsKey(limit int) string {
	return fmt.Sprintf(PopularPostsKeyPrefix, limit)
}

func RecentPostsKey(limit int) string {
	return fmt.Sprintf(RecentPostsKeyPrefix, limit)
}

func UserStatsKey(userID uint) string {
	return fmt.Sprintf(UserStatsKeyPrefix, userID)
}

func GalleryStatsKey(userID uint) string {
	return fmt.Sprintf(GalleryStatsKeyPrefix, userID)
}

func LullabyMusicKey(keyword string) string {
	return fmt.Sprintf(LullabyMusicKeyPrefix, keyword)
}

func LullabyVideoKey(keyword string) string {
	return fmt.Sprintf(LullabyVideoKeyPrefix, keyword)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateFeeds drops the ranked feed caches. Called after any share post
// create, delete or like change.
func InvalidateFeeds(ctx context.Context) {
	if client == nil {
		return
	}
	for _, pattern := range []string{"share:popular:*", "share:recent:*"} {
		iter := client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			client.Del(ctx, iter.Val())
		}
	}
}

func InvalidateUserStats(ctx context.Context, userID uint) {
	Invalidate(ctx, UserStatsKey(userID))
}

func InvalidateGalleryStats(ctx context.Context, userID uint) {
	Invalidate(ctx, GalleryStatsKey(userID))
}
