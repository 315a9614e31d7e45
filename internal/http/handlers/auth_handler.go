package handlers

import (
  "database/sql"
  "errors"
  "net/http"
  "strings"
  "time"

  "github.com/gin-gonic/gin"
  "go.uber.org/zap"

  "sitekit/internal/http/middleware"
  "sitekit/internal/services"
)

type AuthHandler struct {
  db     *sql.DB
  auth   *services.AuthService
  reset  *services.ResetService
  logger *zap.Logger
}

type loginRequest struct {
  Username string `json:"username"`
  Password string `json:"password"`
}

type bootstrapRequest struct {
  Username    string `json:"username"`
  Email       string `json:"email"`
  DisplayName string `json:"display_name"`
  Password    string `json:"password"`
}

type resetRequest struct {
  Username string `json:"username"`
}

type resetConfirmRequest struct {
  Token    string `json:"token"`
  Password string `json:"password"`
}

// NewAuthHandler creates a handler for auth operations.
// Args:
//   db: Database connection.
//   auth: Auth service, nil when JWT is not configured.
//   reset: Password reset service, nil without redis.
//   logger: Logger instance.
// Returns:
//   *AuthHandler: Initialized handler.
func NewAuthHandler(db *sql.DB, auth *services.AuthService, reset *services.ResetService, logger *zap.Logger) *AuthHandler {
  if logger == nil {
    logger = zap.NewNop()
  }
  return &AuthHandler{db: db, auth: auth, reset: reset, logger: logger}
}

// Login authenticates a user and returns a token.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *AuthHandler) Login(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  var req loginRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
    return
  }

  username := strings.TrimSpace(req.Username)
  password := strings.TrimSpace(req.Password)
  if username == "" || password == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
    return
  }

  var (
    id           int64
    dbUsername   string
    displayName  sql.NullString
    role         sql.NullString
    status       sql.NullInt64
    passwordHash sql.NullString
  )

  row := h.db.QueryRowContext(
    c.Request.Context(),
    "SELECT id, username, display_name, role, status, password_hash FROM users WHERE username = ? LIMIT 1",
    username,
  )
  if err := row.Scan(&id, &dbUsername, &displayName, &role, &status, &passwordHash); err != nil {
    if err == sql.ErrNoRows {
      c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
      return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }

  if status.Valid && status.Int64 == 0 {
    c.JSON(http.StatusForbidden, gin.H{"error": "user disabled"})
    return
  }
  if !passwordHash.Valid || passwordHash.String == "" {
    c.JSON(http.StatusForbidden, gin.H{"error": "password not set"})
    return
  }
  if !h.auth.VerifyPassword(passwordHash.String, password) {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
    return
  }

  user := &services.AuthUser{
    ID:          id,
    Username:    dbUsername,
    DisplayName: nullableStringValue(displayName),
    Role:        normalizeRole(role),
  }

  token, expiresAt, err := h.auth.IssueToken(user)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "token failed"})
    return
  }

  now := time.Now()
  _, _ = h.db.ExecContext(c.Request.Context(), "UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?", now, now, id)

  c.JSON(http.StatusOK, gin.H{
    "token":      token,
    "expires_at": expiresAt.Format(time.RFC3339),
    "user": gin.H{
      "id":           user.ID,
      "username":     user.Username,
      "display_name": user.DisplayName,
      "role":         user.Role,
    },
  })
}

// Bootstrap creates the first admin user when no users exist. Without a
// password in the request one is generated and returned once.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *AuthHandler) Bootstrap(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  var count int64
  if err := h.db.QueryRowContext(c.Request.Context(), "SELECT COUNT(1) FROM users").Scan(&count); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }
  if count > 0 {
    c.JSON(http.StatusForbidden, gin.H{"error": "bootstrap not allowed"})
    return
  }

  var req bootstrapRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
    return
  }

  username := strings.TrimSpace(req.Username)
  if username == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
    return
  }

  password, hash, generated, err := passwordOrGenerated(h.auth, req.Password)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
    return
  }

  now := time.Now()
  result, err := h.db.ExecContext(
    c.Request.Context(),
    "INSERT INTO users (username, email, display_name, role, status, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
    username,
    nullIfEmpty(req.Email),
    nullIfEmpty(req.DisplayName),
    "admin",
    1,
    hash,
    now,
    now,
  )
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "insert failed"})
    return
  }

  id, _ := result.LastInsertId()
  response := gin.H{
    "id":       id,
    "username": username,
    "role":     "admin",
  }
  if generated {
    response["password"] = password
  }
  c.JSON(http.StatusOK, response)
}

// Me returns current user info.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *AuthHandler) Me(c *gin.Context) {
  claims, ok := middleware.GetAuthClaims(c)
  if !ok {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }

  c.JSON(http.StatusOK, gin.H{
    "user": gin.H{
      "id":           claims.UserID,
      "username":     claims.Username,
      "display_name": claims.DisplayName,
      "role":         claims.Role,
    },
  })
}

// RequestPasswordReset mails a reset link to the account's address. The
// response does not reveal whether the account exists.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
  if !h.ready(c) {
    return
  }
  if h.reset == nil {
    c.JSON(http.StatusServiceUnavailable, gin.H{"error": "password reset not available"})
    return
  }

  var req resetRequest
  if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
    return
  }

  var (
    id     int64
    email  sql.NullString
    status sql.NullInt64
  )
  row := h.db.QueryRowContext(c.Request.Context(), "SELECT id, email, status FROM users WHERE username = ? LIMIT 1", strings.TrimSpace(req.Username))
  err := row.Scan(&id, &email, &status)
  switch {
  case errors.Is(err, sql.ErrNoRows):
  case err != nil:
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  case status.Valid && status.Int64 == 0, strings.TrimSpace(email.String) == "":
  default:
    _, err := h.reset.Issue(c.Request.Context(), services.ResetRequest{
      UserID:   id,
      Username: strings.TrimSpace(req.Username),
      Email:    email.String,
      Host:     c.Request.Host,
    })
    if err != nil {
      h.logger.Error("issue password reset failed", zap.Int64("user_id", id), zap.Error(err))
    }
  }

  c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ConfirmPasswordReset sets a new password using a reset token.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
  if !h.ready(c) {
    return
  }
  if h.reset == nil {
    c.JSON(http.StatusServiceUnavailable, gin.H{"error": "password reset not available"})
    return
  }

  var req resetConfirmRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
    return
  }
  password := strings.TrimSpace(req.Password)
  if password == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
    return
  }

  hash, err := h.auth.HashPassword(password)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
    return
  }

  ctx := c.Request.Context()
  userID, err := h.reset.Consume(ctx, req.Token)
  if errors.Is(err, services.ErrResetTokenInvalid) {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
    return
  }

  if _, err := h.db.ExecContext(ctx, "UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?", hash, time.Now(), userID); err != nil {
    if restoreErr := h.reset.Restore(ctx, req.Token, userID); restoreErr != nil {
      h.logger.Error("restore reset token failed", zap.Int64("user_id", userID), zap.Error(restoreErr))
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
    return
  }

  c.JSON(http.StatusOK, gin.H{"id": userID})
}

func (h *AuthHandler) ready(c *gin.Context) bool {
  if h.db == nil {
    c.JSON(http.StatusServiceUnavailable, gin.H{"error": "db not ready"})
    return false
  }
  if h.auth == nil {
    c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth not configured"})
    return false
  }
  return true
}

// passwordOrGenerated hashes raw, or generates a password when raw is empty.
func passwordOrGenerated(auth *services.AuthService, raw string) (string, string, bool, error) {
  password := strings.TrimSpace(raw)
  if password == "" {
    generated, hash, err := auth.GeneratePassword()
    return generated, hash, true, err
  }
  hash, err := auth.HashPassword(password)
  return password, hash, false, err
}

func normalizeRole(value sql.NullString) string {
  if value.Valid {
    raw := strings.TrimSpace(strings.ToLower(value.String))
    if raw != "" {
      return raw
    }
  }
  return "user"
}
