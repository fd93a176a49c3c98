// Package notifications provides real-time feed event delivery.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"storynest/internal/observability"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis pub/sub channel carrying share feed events.
const FeedChannel = "feed:events"

// Feed event types.
const (
	EventPostCreated    = "post.created"
	EventPostLiked      = "post.liked"
	EventCommentCreated = "comment.created"
)

// FeedEvent is the payload broadcast to feed subscribers. DisplayName is the
// author label already resolved at write time.
type FeedEvent struct {
	Type        string    `json:"type"`
	PostID      uint      `json:"post_id"`
	DisplayName string    `json:"display_name,omitempty"`
	StoryTitle  string    `json:"story_title,omitempty"`
	LikeCount   int       `json:"like_count,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier publishes feed events into Redis. A nil Redis client turns every
// publish into a no-op so the API works without the pub/sub tier.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishFeedEvent sends the event to the shared feed channel.
func (n *Notifier) PublishFeedEvent(ctx context.Context, event FeedEvent) error {
	if n.rdb == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}
	observability.FeedEventsTotal.WithLabelValues(event.Type).Inc()
	return n.rdb.Publish(ctx, FeedChannel, string(payload)).Err()
}

// PublishPostCreated announces a freshly shared post.
func (n *Notifier) PublishPostCreated(ctx context.Context, postID uint, displayName, storyTitle string) error {
	return n.PublishFeedEvent(ctx, FeedEvent{
		Type:        EventPostCreated,
		PostID:      postID,
		DisplayName: displayName,
		StoryTitle:  storyTitle,
	})
}

// PublishPostLiked announces a like-count change.
func (n *Notifier) PublishPostLiked(ctx context.Context, postID uint, likeCount int) error {
	return n.PublishFeedEvent(ctx, FeedEvent{
		Type:      EventPostLiked,
		PostID:    postID,
		LikeCount: likeCount,
	})
}

// PublishCommentCreated announces a new comment on a post.
func (n *Notifier) PublishCommentCreated(ctx context.Context, postID uint, displayName string) error {
	return n.PublishFeedEvent(ctx, FeedEvent{
		Type:        EventCommentCreated,
		PostID:      postID,
		DisplayName: displayName,
	})
}

// StartFeedSubscriber subscribes to the feed channel and calls onEvent for
// each incoming event until ctx is canceled.
func (n *Notifier) StartFeedSubscriber(ctx context.Context, onEvent func(event FeedEvent)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in FeedSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					var event FeedEvent
					if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
						log.Printf("feed subscriber: dropping malformed event: %v", err)
						return
					}
					onEvent(event)
				}()
			}
		}
	}()

	return nil
}
