package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "sitekit/internal/services"
)

// writeWorkbook sends book as an xlsx download.
func writeWorkbook(c *gin.Context, book *services.Workbook) {
  headers := book.Headers()
  for key, value := range headers {
    if key == "content-type" {
      continue
    }
    c.Header(key, value)
  }
  c.Data(http.StatusOK, headers["content-type"], book.Data)
}
