// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storynest_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storynest_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// GenerationRequestLatency records generation sidecar call latency by endpoint.
	// Video synthesis routinely takes tens of seconds, hence the wide buckets.
	GenerationRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storynest_generation_request_latency_seconds",
		Help:    "Generation sidecar request latency in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 180},
	}, []string{"endpoint", "status"})

	// SharePostsCreated counts share posts by source type.
	SharePostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storynest_share_posts_created_total",
		Help: "Total number of share posts created by source type",
	}, []string{"source_type"})

	// FeedConnectionsTotal is the gauge of active feed WebSocket connections.
	FeedConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storynest_feed_connections_total",
		Help: "Total number of active feed WebSocket connections",
	})

	// FeedEventsTotal counts feed events published by type.
	FeedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storynest_feed_events_total",
		Help: "Total feed events published by type",
	}, []string{"event_type"})
)

// ObserveGenerationRequest records one generation sidecar call.
func ObserveGenerationRequest(endpoint, status string, start time.Time) {
	GenerationRequestLatency.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
