package middleware

import (
	"strconv"
	"time"

	"ats-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency labelled by the matched route,
// so path parameters do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
