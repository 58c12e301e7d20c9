package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nodetree-backend/internal/observability"
)

// Metrics records request counts and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		observability.HTTPStart()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		observability.HTTPDone(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
