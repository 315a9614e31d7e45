package handlers

import (
  "database/sql"
  "net/http"
  "strconv"
  "strings"
  "time"

  "github.com/gin-gonic/gin"

  "sitekit/internal/services"
  "sitekit/internal/util"
)

type MemberHandler struct {
  db  *sql.DB
  now func() time.Time
}

type createMemberRequest struct {
  Name  string `json:"name"`
  Email string `json:"email"`
}

// NewMemberHandler creates a handler for member subscriptions.
// Args:
//   db: Database connection.
// Returns:
//   *MemberHandler: Initialized handler.
func NewMemberHandler(db *sql.DB) *MemberHandler {
  return &MemberHandler{db: db, now: time.Now}
}

// Create registers a member whose subscription runs until the start of the
// next quarter.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *MemberHandler) Create(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  var req createMemberRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
    return
  }
  name := strings.TrimSpace(req.Name)
  if name == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
    return
  }

  slug, err := h.uniqueSlug(c, MemberSlug(name))
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }

  now := h.now()
  expiresAt := util.StartOfNextQuarter(now)
  result, err := h.db.ExecContext(
    c.Request.Context(),
    "INSERT INTO members (name, slug, email, expires_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
    name,
    slug,
    nullIfEmpty(req.Email),
    expiresAt,
    now,
    now,
  )
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "insert failed"})
    return
  }

  id, _ := result.LastInsertId()
  c.JSON(http.StatusOK, gin.H{
    "id":         id,
    "name":       name,
    "slug":       slug,
    "expires_at": expiresAt.Format(time.RFC3339),
  })
}

// Renew extends a subscription by one quarter. Expired subscriptions restart
// from the current quarter.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *MemberHandler) Renew(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  id, err := parseInt64ParamValue(c.Param("id"))
  if err != nil || id <= 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
    return
  }

  var current time.Time
  row := h.db.QueryRowContext(c.Request.Context(), "SELECT expires_at FROM members WHERE id = ? LIMIT 1", id)
  if err := row.Scan(&current); err != nil {
    if err == sql.ErrNoRows {
      c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
      return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }

  now := h.now()
  expiresAt := RenewedExpiry(current, now)
  if _, err := h.db.ExecContext(c.Request.Context(), "UPDATE members SET expires_at = ?, updated_at = ? WHERE id = ?", expiresAt, now, id); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
    return
  }

  c.JSON(http.StatusOK, gin.H{"id": id, "expires_at": expiresAt.Format(time.RFC3339)})
}

// List returns members ordered by name.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *MemberHandler) List(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  members, err := h.queryMembers(c)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }

  now := h.now()
  items := make([]gin.H, 0, len(members))
  for _, m := range members {
    items = append(items, gin.H{
      "id":         m.id,
      "name":       m.name,
      "slug":       m.slug,
      "email":      nullableString(m.email),
      "expires_at": m.expiresAt.Format(time.RFC3339),
      "active":     m.expiresAt.After(now),
    })
  }
  c.JSON(http.StatusOK, gin.H{"data": items})
}

// Export returns the member list as an xlsx download.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *MemberHandler) Export(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  members, err := h.queryMembers(c)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }

  rows := make([][]interface{}, 0, len(members))
  for _, m := range members {
    rows = append(rows, []interface{}{m.id, m.name, m.slug, nullableStringValue(m.email), m.expiresAt})
  }

  book, err := services.BuildWorkbook(
    MemberExportTitle(h.now()),
    []string{"ID", "Name", "Slug", "Email", "Expires"},
    rows,
  )
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
    return
  }
  writeWorkbook(c, book)
}

// MemberSlug derives the URL slug for a member name.
func MemberSlug(name string) string {
  slug := sanitizePathSegment(util.PinyinSlug(name))
  if slug == "" {
    return "member"
  }
  return slug
}

// RenewedExpiry returns the expiry one quarter after current, or the start of
// the next quarter when current already lies in the past.
func RenewedExpiry(current, now time.Time) time.Time {
  if current.After(now) {
    return util.StartOfNextQuarter(current.In(now.Location()))
  }
  return util.StartOfNextQuarter(now)
}

// MemberExportTitle names the member export after the current quarter.
func MemberExportTitle(now time.Time) string {
  return "Members " + strconv.Itoa(now.Year()) + " Q" + strconv.Itoa(util.QuarterOf(now))
}

func (h *MemberHandler) uniqueSlug(c *gin.Context, base string) (string, error) {
  slug := base
  for i := 2; ; i++ {
    var exists int64
    if err := h.db.QueryRowContext(c.Request.Context(), "SELECT COUNT(1) FROM members WHERE slug = ?", slug).Scan(&exists); err != nil {
      return "", err
    }
    if exists == 0 {
      return slug, nil
    }
    slug = base + "-" + strconv.Itoa(i)
  }
}

type memberRow struct {
  id        int64
  name      string
  slug      string
  email     sql.NullString
  expiresAt time.Time
}

func (h *MemberHandler) queryMembers(c *gin.Context) ([]memberRow, error) {
  rows, err := h.db.QueryContext(c.Request.Context(), "SELECT id, name, slug, email, expires_at FROM members ORDER BY name")
  if err != nil {
    return nil, err
  }
  defer rows.Close()

  out := make([]memberRow, 0)
  for rows.Next() {
    var m memberRow
    if err := rows.Scan(&m.id, &m.name, &m.slug, &m.email, &m.expiresAt); err != nil {
      return nil, err
    }
    out = append(out, m)
  }
  return out, rows.Err()
}

func (h *MemberHandler) ready(c *gin.Context) bool {
  if h.db == nil {
    c.JSON(http.StatusServiceUnavailable, gin.H{"error": "db not ready"})
    return false
  }
  return true
}
