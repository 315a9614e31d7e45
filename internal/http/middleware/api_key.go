package middleware

import (
  "crypto/subtle"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"

  "sitekit/internal/config"
)

// APIKeyHeader carries the export key for machine clients.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey guards machine export endpoints with EXPORT_API_KEY. The key is
// read from the X-API-Key header, then from the api_key query parameter.
// Args:
//   cfg: App config instance.
// Returns:
//   gin.HandlerFunc: Middleware handler.
func RequireAPIKey(cfg *config.Config) gin.HandlerFunc {
  expected := []byte(strings.TrimSpace(cfg.ExportAPIKey))

  return func(c *gin.Context) {
    if len(expected) == 0 {
      c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "export api key not configured"})
      return
    }

    given := strings.TrimSpace(c.GetHeader(APIKeyHeader))
    if given == "" {
      given = strings.TrimSpace(c.Query("api_key"))
    }
    if subtle.ConstantTimeCompare([]byte(given), expected) != 1 {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
      return
    }

    c.Next()
  }
}
