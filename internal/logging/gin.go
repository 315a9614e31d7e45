package logging

import (
  "time"

  "github.com/gin-gonic/gin"
  "go.uber.org/zap"
)

// Gin logs one line per request with status, latency and request id.
func Gin(logger *zap.Logger) gin.HandlerFunc {
  return func(c *gin.Context) {
    start := time.Now()
    c.Next()

    fields := []zap.Field{
      zap.Int("status", c.Writer.Status()),
      zap.String("method", c.Request.Method),
      zap.String("path", c.Request.URL.Path),
      zap.String("host", c.Request.Host),
      zap.Duration("latency", time.Since(start)),
      zap.String("request_id", c.Writer.Header().Get("X-Request-Id")),
    }
    if len(c.Errors) > 0 {
      fields = append(fields, zap.String("errors", c.Errors.String()))
    }

    switch status := c.Writer.Status(); {
    case status >= 500:
      logger.Error("request", fields...)
    case status >= 400:
      logger.Warn("request", fields...)
    default:
      logger.Info("request", fields...)
    }
  }
}
