package handlers_test

import (
  "bytes"
  "encoding/json"
  "net/http"
  "net/http/httptest"
  "regexp"
  "testing"
  "time"

  "github.com/DATA-DOG/go-sqlmock"
  "github.com/gin-gonic/gin"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "sitekit/internal/http/handlers"
)

func TestMemberSlug(t *testing.T) {
  assert.Equal(t, "anna-de-vries", handlers.MemberSlug("Anna de Vries"))
  assert.Equal(t, "wang-xiao-ming", handlers.MemberSlug("王小明"))
  assert.Equal(t, "member", handlers.MemberSlug("???"))
}

func TestRenewedExpiry(t *testing.T) {
  now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

  future := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
  assert.Equal(t, time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), handlers.RenewedExpiry(future, now))

  past := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
  assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), handlers.RenewedExpiry(past, now))
}

func TestMemberExportTitle(t *testing.T) {
  assert.Equal(t, "Members 2024 Q4", handlers.MemberExportTitle(time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMemberCreate(t *testing.T) {
  gin.SetMode(gin.TestMode)
  db, mock, err := sqlmock.New()
  require.NoError(t, err)
  defer db.Close()

  countQuery := regexp.QuoteMeta("SELECT COUNT(1) FROM members WHERE slug = ?")
  mock.ExpectQuery(countQuery).WithArgs("anna-de-vries").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
  mock.ExpectQuery(countQuery).WithArgs("anna-de-vries-2").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
  mock.ExpectExec(regexp.QuoteMeta("INSERT INTO members")).
    WithArgs("Anna de Vries", "anna-de-vries-2", "anna@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
    WillReturnResult(sqlmock.NewResult(5, 1))

  router := gin.New()
  router.POST("/members", handlers.NewMemberHandler(db).Create)

  body, _ := json.Marshal(map[string]string{"name": " Anna de Vries ", "email": "anna@example.com"})
  req := httptest.NewRequest(http.MethodPost, "/members", bytes.NewReader(body))
  req.Header.Set("Content-Type", "application/json")
  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, req)
  require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

  var resp struct {
    ID        int64  `json:"id"`
    Slug      string `json:"slug"`
    ExpiresAt string `json:"expires_at"`
  }
  require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
  assert.Equal(t, int64(5), resp.ID)
  assert.Equal(t, "anna-de-vries-2", resp.Slug)

  expires, err := time.Parse(time.RFC3339, resp.ExpiresAt)
  require.NoError(t, err)
  assert.Equal(t, 1, expires.Day())
  assert.Contains(t, []time.Month{time.January, time.April, time.July, time.October}, expires.Month())
  assert.True(t, expires.After(time.Now()))

  require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberExportHeaders(t *testing.T) {
  gin.SetMode(gin.TestMode)
  db, mock, err := sqlmock.New()
  require.NoError(t, err)
  defer db.Close()

  mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, slug, email, expires_at FROM members")).
    WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "email", "expires_at"}).
      AddRow(1, "Anna", "anna", nil, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))

  router := gin.New()
  router.GET("/members/export", handlers.NewMemberHandler(db).Export)

  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members/export", nil))
  require.Equal(t, http.StatusOK, rec.Code)
  assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet; charset=UTF-8", rec.Header().Get("Content-Type"))
  assert.Regexp(t, regexp.MustCompile(`^attachment;filename="Members \d{4} Q[1-4]\.xlsx"$`), rec.Header().Get("Content-Disposition"))
  assert.Equal(t, "max-age=0", rec.Header().Get("Cache-Control"))
  assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

  require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberHandlerWithoutDB(t *testing.T) {
  gin.SetMode(gin.TestMode)
  router := gin.New()
  router.GET("/members", handlers.NewMemberHandler(nil).List)

  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members", nil))
  assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
