package handlers_test

import (
  "bytes"
  "encoding/json"
  "net/http"
  "net/http/httptest"
  "regexp"
  "strings"
  "testing"

  "github.com/DATA-DOG/go-sqlmock"
  "github.com/gin-gonic/gin"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "sitekit/internal/config"
  "sitekit/internal/http/handlers"
  "sitekit/internal/services"
  "sitekit/internal/util"
)

func newAuthService(t *testing.T) *services.AuthService {
  t.Helper()
  auth, err := services.NewAuthService(&config.Config{JwtSecret: "test-secret", PasswordLength: 10})
  require.NoError(t, err)
  return auth
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
  body, _ := json.Marshal(payload)
  req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
  req.Header.Set("Content-Type", "application/json")
  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, req)
  return rec
}

func TestUserCreateGeneratesPassword(t *testing.T) {
  gin.SetMode(gin.TestMode)
  db, mock, err := sqlmock.New()
  require.NoError(t, err)
  defer db.Close()

  mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM users WHERE username = ?")).
    WithArgs("editor").
    WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
  mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
    WithArgs("editor", "editor@example.com", nil, "user", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
    WillReturnResult(sqlmock.NewResult(3, 1))

  auth := newAuthService(t)
  router := gin.New()
  router.POST("/users", handlers.NewUserHandler(db, auth).Create)

  rec := postJSON(router, "/users", map[string]string{"username": "editor", "email": "editor@example.com"})
  require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

  var resp struct {
    ID       int64  `json:"id"`
    Password string `json:"password"`
  }
  require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
  assert.Equal(t, int64(3), resp.ID)
  assert.Len(t, resp.Password, 10)
  for _, ch := range resp.Password {
    assert.True(t, strings.ContainsRune(util.PasswordCharacters, ch))
  }
  require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateKeepsGivenPassword(t *testing.T) {
  gin.SetMode(gin.TestMode)
  db, mock, err := sqlmock.New()
  require.NoError(t, err)
  defer db.Close()

  mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(1) FROM users WHERE username = ?")).
    WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
  mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnResult(sqlmock.NewResult(4, 1))

  router := gin.New()
  router.POST("/users", handlers.NewUserHandler(db, newAuthService(t)).Create)

  rec := postJSON(router, "/users", map[string]string{"username": "admin2", "password": "chosen", "role": "ADMIN"})
  require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
  assert.NotContains(t, rec.Body.String(), `"password"`)
  assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestUserCreateRejectsInvalidRole(t *testing.T) {
  gin.SetMode(gin.TestMode)
  db, _, err := sqlmock.New()
  require.NoError(t, err)
  defer db.Close()

  router := gin.New()
  router.POST("/users", handlers.NewUserHandler(db, newAuthService(t)).Create)

  rec := postJSON(router, "/users", map[string]string{"username": "x", "role": "owner"})
  assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserResetPassword(t *testing.T) {
  gin.SetMode(gin.TestMode)
  db, mock, err := sqlmock.New()
  require.NoError(t, err)
  defer db.Close()

  mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?")).
    WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(9)).
    WillReturnResult(sqlmock.NewResult(0, 1))
  mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?")).
    WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(10)).
    WillReturnResult(sqlmock.NewResult(0, 0))

  router := gin.New()
  router.POST("/users/:id/reset-password", handlers.NewUserHandler(db, newAuthService(t)).ResetPassword)

  rec := postJSON(router, "/users/9/reset-password", nil)
  require.Equal(t, http.StatusOK, rec.Code)
  var resp struct {
    Password string `json:"password"`
  }
  require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
  assert.Len(t, resp.Password, 10)

  rec = postJSON(router, "/users/10/reset-password", nil)
  assert.Equal(t, http.StatusNotFound, rec.Code)

  rec = postJSON(router, "/users/abc/reset-password", nil)
  assert.Equal(t, http.StatusBadRequest, rec.Code)
  require.NoError(t, mock.ExpectationsWereMet())
}
