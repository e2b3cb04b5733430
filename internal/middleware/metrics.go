package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	// UploadsTotal counts completed video publications by outcome.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_uploads_total",
			Help: "Video upload attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// UploadBytes observes the size of published video files.
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_upload_bytes",
			Help:    "Size distribution of published video files.",
			Buckets: prometheus.ExponentialBuckets(1<<20, 2, 7), // 1MB .. 64MB
		},
	)
)

// Metrics returns middleware recording per-request latency and counts.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
