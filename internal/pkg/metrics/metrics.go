package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts handled requests by route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPLatency records handler latency by route.
	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studio_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// StoreLatency records relational store latency by entity and operation.
	StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studio_store_operation_duration_seconds",
		Help:    "Store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity", "op"})

	// StoreErrors counts failed store operations.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_store_errors_total",
		Help: "Total failed store operations by entity and operation",
	}, []string{"entity", "op"})

	// AssetOperations counts object storage calls by operation and outcome.
	AssetOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_asset_operations_total",
		Help: "Object storage operations by operation and outcome",
	}, []string{"op", "outcome"})

	// AssetCleanupWarnings counts best-effort deletions that failed after a row mutation.
	AssetCleanupWarnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_asset_cleanup_warnings_total",
		Help: "Asset deletions that failed after the owning row changed",
	}, []string{"entity"})

	// SignIns counts sign-in attempts by outcome.
	SignIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_sign_in_attempts_total",
		Help: "Sign-in attempts by outcome",
	}, []string{"outcome"})

	// EventsSwept counts events flipped to past by the maintenance sweep.
	EventsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studio_events_swept_total",
		Help: "Events marked past by the sweep",
	})
)

// ObserveStore records latency and, when err is non-nil, a failure.
func ObserveStore(entity, op string, start time.Time, err error) {
	StoreLatency.WithLabelValues(entity, op).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(entity, op).Inc()
	}
}

// Outcome maps an error to the "ok"/"error" label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// GinMiddleware records request count and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
