package middleware

import (
	"time"

	"todoapi/pkg/config"
	"todoapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func LoggingMiddleware(logger *config.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", GetRequestID(c)),
			zap.String("trace_id", tracing.GetTraceID(c.Request.Context())),
		}

		if c.Writer.Status() >= 500 {
			logger.Logger.Ctx(c.Request.Context()).Error("HTTP Request", fields...)
			return
		}

		logger.Logger.Ctx(c.Request.Context()).Info("HTTP Request", fields...)
	}
}
