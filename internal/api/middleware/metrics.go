// internal/api/middleware/metrics.go
package middleware

import (
	"strconv"
	"time"

	"alumni-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency per matched route. Unmatched
// paths share one label.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
