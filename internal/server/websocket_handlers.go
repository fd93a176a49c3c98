package server

import (
	"storynest/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedWebSocketHandler upgrades the connection and streams feed events
// @Summary Live feed stream
// @Description WebSocket endpoint pushing share feed events (new posts, likes, comments)
// @Tags feed
// @Param token query string true "JWT token"
// @Router /ws [get]
func (s *Server) FeedWebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok {
			conn.Close()
			return
		}

		if s.feedHub == nil {
			middleware.Logger.Warn("feed hub unavailable, closing websocket", "user_id", userID)
			conn.Close()
			return
		}

		s.feedHub.Register(conn)
		middleware.Logger.Info("feed client connected",
			"user_id", userID, "connections", s.feedHub.ConnectionCount())

		defer func() {
			s.feedHub.Unregister(conn)
			conn.Close()
			middleware.Logger.Info("feed client disconnected", "user_id", userID)
		}()

		// The feed is push-only. The read loop exists to detect disconnects
		// and drain client pings.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
