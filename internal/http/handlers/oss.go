package handlers

import (
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"

  "sitekit/internal/services"
)

type OSSHandler struct {
  oss *services.OSSService
}

// NewOSSHandler creates a handler for signed links to mirrored uploads.
// Args:
//   oss: OSS service, nil when OSS is not configured.
// Returns:
//   *OSSHandler: Initialized handler.
func NewOSSHandler(oss *services.OSSService) *OSSHandler {
  return &OSSHandler{oss: oss}
}

// SignURL returns a signed GET URL for the upload web path in ?url=.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *OSSHandler) SignURL(c *gin.Context) {
  if h.oss == nil {
    c.JSON(http.StatusServiceUnavailable, gin.H{"error": "oss not configured"})
    return
  }
  webPath := strings.TrimSpace(c.Query("url"))
  if !strings.HasPrefix(webPath, uploadURLPrefix) {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
    return
  }

  signedURL, err := h.oss.GetSignedURL(c.Request.Context(), webPath)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "sign url failed"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"url": webPath, "signed_url": signedURL})
}
