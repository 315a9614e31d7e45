package middleware

import (
  "github.com/gin-gonic/gin"

  "sitekit/internal/util"
)

const DomainContextKey = "site_domain"

// Host stores the site domain derived from the request host header.
func Host() gin.HandlerFunc {
  return func(c *gin.Context) {
    c.Set(DomainContextKey, util.Domain(c.Request.Host))
    c.Next()
  }
}

// GetDomain returns the domain stored by Host, falling back to the request
// host when the middleware did not run.
func GetDomain(c *gin.Context) string {
  if raw, ok := c.Get(DomainContextKey); ok {
    if domain, ok := raw.(string); ok {
      return domain
    }
  }
  return util.Domain(c.Request.Host)
}
