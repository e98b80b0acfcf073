// api/middleware/logger.go
package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"smpc/pkg/logger"
)

// Logger 日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		line := fmt.Sprintf("HTTP %s %s [状态=%d, 耗时=%v, 来源=%s]",
			c.Request.Method, path, statusCode, latency, c.ClientIP())

		if statusCode >= 400 {
			logger.Error(line)
		} else {
			logger.Info(line)
		}
	}
}
