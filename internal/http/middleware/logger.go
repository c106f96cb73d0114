package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"dealerhub/internal/utils"
)

// Logger writes one access log line per request, with request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		event := utils.Logger.Info()
		switch {
		case status >= 500:
			event = utils.Logger.Error()
		case status >= 400:
			event = utils.Logger.Warn()
		}
		event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Float64("latency_ms", float64(latency.Microseconds())/1000.0).
			Str("ip", c.ClientIP()).
			Msg("http")
	}
}
