package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/graphway/graphway/internal/metrics"
)

// PrometheusMiddleware counts requests by route pattern and observes their
// duration. Routes listed in streaming live as long as the connection, so
// they are counted but kept out of the latency histogram.
func PrometheusMiddleware(streaming ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(streaming))
	for _, p := range streaming {
		skip[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if !skip[path] {
			metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		}
	}
}
