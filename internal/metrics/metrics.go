package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lodgehall_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lodgehall_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	UsersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lodgehall_users_registered_total",
		Help: "Total number of registered users",
	})
	LodgesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lodgehall_lodges_created_total",
		Help: "Total number of lodges created",
	})
	MessagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lodgehall_messages_sent_total",
		Help: "Total number of messages posted to cabins",
	})
	TokenCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lodgehall_token_cache_lookups_total",
		Help: "Token resolution cache lookups by result (hit, miss, error)",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UsersRegistered,
		LodgesCreated,
		MessagesSent,
		TokenCacheLookups,
	)
}

// GinMiddleware records request count and latency per route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			// Unmatched paths would blow up label cardinality.
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HTTPRequestsTotal.With(labels).Inc()
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
