package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"

  "sitekit/internal/http/middleware"
)

func Health(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{
    "status": "ok",
    "domain": middleware.GetDomain(c),
    "time":   time.Now().Format(time.RFC3339),
  })
}

func Ping(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{
    "message": "pong",
  })
}
