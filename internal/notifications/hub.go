package notifications

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"storynest/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// FeedHub fans feed events out to every connected websocket client. The feed
// is a single shared stream, so the hub tracks a flat connection set rather
// than per-user rooms.
type FeedHub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

func NewFeedHub() *FeedHub {
	return &FeedHub{conns: make(map[*websocket.Conn]struct{})}
}

// Register adds a connection to the broadcast set.
func (h *FeedHub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; !ok {
		h.conns[conn] = struct{}{}
		observability.FeedConnectionsTotal.Inc()
	}
}

// Unregister removes a connection.
func (h *FeedHub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		observability.FeedConnectionsTotal.Dec()
	}
}

// ConnectionCount returns the number of connected clients.
func (h *FeedHub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends the event to every connected client. Write failures are
// logged and the connection is left for its reader goroutine to reap.
func (h *FeedHub) Broadcast(event FeedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("feed hub: marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("feed hub: websocket write error: %v", err)
		}
	}
}

// StartWiring connects the Notifier to this hub: feed events published to
// Redis are forwarded to every connected client, so broadcasts reach clients
// attached to other API instances too.
func (h *FeedHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartFeedSubscriber(ctx, h.Broadcast)
}
