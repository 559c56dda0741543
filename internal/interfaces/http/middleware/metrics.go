package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	verificationAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mobile_verification_attempts_total",
			Help: "Mobile verification attempts by outcome (verified, invalid_token, already_verified)",
		},
		[]string{"outcome"},
	)
)

// MetricsMiddleware records request counts and latencies for Prometheus
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			// Unregistered routes collapse into one label to keep cardinality bounded
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// CountVerificationAttempt records the outcome of a verification attempt
func CountVerificationAttempt(outcome string) {
	verificationAttemptsTotal.WithLabelValues(outcome).Inc()
}
