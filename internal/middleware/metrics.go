package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

// InitMetrics registers Prometheus HTTP metrics on the app and exposes /metrics.
func InitMetrics(app *fiber.App) {
	prometheus := fiberprometheus.New("storynest")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
}
