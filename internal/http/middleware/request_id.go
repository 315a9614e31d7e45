package middleware

import (
  "github.com/gin-gonic/gin"

  "sitekit/internal/util"
)

const RequestIDHeader = "X-Request-Id"

// RequestID echoes an incoming request id or assigns a new hex id.
func RequestID() gin.HandlerFunc {
  return func(c *gin.Context) {
    id := c.GetHeader(RequestIDHeader)
    if id == "" {
      id = newID()
    }
    c.Header(RequestIDHeader, id)
    c.Next()
  }
}

func newID() string {
  id, err := util.GenerateToken(8)
  if err != nil {
    return "fallback"
  }
  return id
}
