package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mentor-backend/internal/platform/observability"
)

// Metrics instruments request counts and latency by matched route.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.IncInflight()
		defer m.DecInflight()

		c.Next()

		m.ObserveRequest(c.FullPath(), c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
