package handlers

import (
  "database/sql"
  "net/http"
  "strings"
  "time"

  "github.com/gin-gonic/gin"

  "sitekit/internal/http/middleware"
  "sitekit/internal/services"
)

type UserHandler struct {
  db   *sql.DB
  auth *services.AuthService
}

type createUserRequest struct {
  Username    string `json:"username"`
  Email       string `json:"email"`
  DisplayName string `json:"display_name"`
  Role        string `json:"role"`
  Status      *int   `json:"status"`
  Password    string `json:"password"`
}

type updateUserRequest struct {
  Username    *string `json:"username"`
  Email       *string `json:"email"`
  DisplayName *string `json:"display_name"`
  Role        *string `json:"role"`
  Status      *int    `json:"status"`
  Password    *string `json:"password"`
}

type changeMyPasswordRequest struct {
  OldPassword string `json:"old_password"`
  NewPassword string `json:"new_password"`
}

// NewUserHandler creates a handler for user operations.
// Args:
//   db: Database connection.
//   auth: Auth service.
// Returns:
//   *UserHandler: Initialized handler.
func NewUserHandler(db *sql.DB, auth *services.AuthService) *UserHandler {
  return &UserHandler{db: db, auth: auth}
}

// Create creates a new user (admin only). When no password is given one is
// generated and returned in the response.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *UserHandler) Create(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  var req createUserRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
    return
  }

  username := strings.TrimSpace(req.Username)
  if username == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
    return
  }

  role, ok := parseRole(req.Role)
  if !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
    return
  }

  var exists int64
  if err := h.db.QueryRowContext(c.Request.Context(), "SELECT COUNT(1) FROM users WHERE username = ?", username).Scan(&exists); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }
  if exists > 0 {
    c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
    return
  }

  password, hash, generated, err := passwordOrGenerated(h.auth, req.Password)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
    return
  }

  status := 1
  if req.Status != nil {
    if *req.Status != 0 && *req.Status != 1 {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
      return
    }
    status = *req.Status
  }

  now := time.Now()
  result, err := h.db.ExecContext(
    c.Request.Context(),
    "INSERT INTO users (username, email, display_name, role, status, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
    username,
    nullIfEmpty(req.Email),
    nullIfEmpty(req.DisplayName),
    role,
    status,
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
    "id":           id,
    "username":     username,
    "display_name": strings.TrimSpace(req.DisplayName),
    "role":         role,
  }
  if generated {
    response["password"] = password
  }
  c.JSON(http.StatusOK, response)
}

// List returns users (admin only).
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *UserHandler) List(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  users, err := h.queryUsers(c)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }

  items := make([]gin.H, 0, len(users))
  for _, u := range users {
    items = append(items, gin.H{
      "id":            u.id,
      "username":      u.username,
      "email":         nullableString(u.email),
      "display_name":  nullableString(u.displayName),
      "role":          normalizeRole(u.role),
      "status":        nullableInt(u.status),
      "created_at":    nullableTimePointer(u.createdAt),
      "last_login_at": nullableTimePointer(u.lastLoginAt),
    })
  }

  c.JSON(http.StatusOK, gin.H{"data": items})
}

// Export returns the user list as an xlsx download (admin only).
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *UserHandler) Export(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  users, err := h.queryUsers(c)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }

  rows := make([][]interface{}, 0, len(users))
  for _, u := range users {
    status := "active"
    if u.status.Valid && u.status.Int64 == 0 {
      status = "disabled"
    }
    rows = append(rows, []interface{}{
      u.id,
      u.username,
      nullableStringValue(u.email),
      nullableStringValue(u.displayName),
      normalizeRole(u.role),
      status,
      nullableTimePointer(u.lastLoginAt),
    })
  }

  book, err := services.BuildWorkbook(
    "Users "+time.Now().Format("2006-01-02"),
    []string{"ID", "Username", "Email", "Display name", "Role", "Status", "Last login"},
    rows,
  )
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
    return
  }
  writeWorkbook(c, book)
}

// Update updates user profile fields (admin only).
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *UserHandler) Update(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  id, err := parseInt64ParamValue(c.Param("id"))
  if err != nil || id <= 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
    return
  }

  var req updateUserRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
    return
  }

  payload := map[string]interface{}{}
  if req.Username != nil {
    username := strings.TrimSpace(*req.Username)
    if username == "" {
      c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
      return
    }
    var exists int64
    if err := h.db.QueryRowContext(c.Request.Context(), "SELECT COUNT(1) FROM users WHERE username = ? AND id <> ?", username, id).Scan(&exists); err != nil {
      c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
      return
    }
    if exists > 0 {
      c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
      return
    }
    payload["username"] = username
  }

  if req.Email != nil {
    payload["email"] = nullIfEmpty(*req.Email)
  }

  if req.DisplayName != nil {
    payload["display_name"] = nullIfEmpty(*req.DisplayName)
  }

  if req.Role != nil {
    role, ok := parseRole(*req.Role)
    if !ok || strings.TrimSpace(*req.Role) == "" {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
      return
    }
    payload["role"] = role
  }

  if req.Status != nil {
    if *req.Status != 0 && *req.Status != 1 {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
      return
    }
    payload["status"] = *req.Status
  }

  if req.Password != nil {
    password := strings.TrimSpace(*req.Password)
    if password == "" {
      c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
      return
    }
    hash, err := h.auth.HashPassword(password)
    if err != nil {
      c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
      return
    }
    payload["password_hash"] = hash
  }

  if len(payload) == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "empty payload"})
    return
  }
  payload["updated_at"] = time.Now()

  sqlText, args, err := BuildUpdateSQL("users", "id", id, payload)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }

  result, err := h.db.ExecContext(c.Request.Context(), sqlText, args...)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
    return
  }
  rows, _ := result.RowsAffected()
  if rows == 0 {
    c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
    return
  }

  c.JSON(http.StatusOK, gin.H{"id": id})
}

// ResetPassword replaces a user's password with a generated one and returns
// it (admin only).
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *UserHandler) ResetPassword(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  id, err := parseInt64ParamValue(c.Param("id"))
  if err != nil || id <= 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
    return
  }

  password, hash, err := h.auth.GeneratePassword()
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "generate failed"})
    return
  }

  result, err := h.db.ExecContext(c.Request.Context(), "UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?", hash, time.Now(), id)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
    return
  }
  if rows, _ := result.RowsAffected(); rows == 0 {
    c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
    return
  }

  c.JSON(http.StatusOK, gin.H{"id": id, "password": password})
}

// ChangeMyPassword updates current user's password.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *UserHandler) ChangeMyPassword(c *gin.Context) {
  if !h.ready(c) {
    return
  }

  claims, ok := middleware.GetAuthClaims(c)
  if !ok || claims.UserID <= 0 {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }

  var req changeMyPasswordRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
    return
  }

  oldPassword := strings.TrimSpace(req.OldPassword)
  newPassword := strings.TrimSpace(req.NewPassword)
  if oldPassword == "" || newPassword == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "old_password and new_password are required"})
    return
  }

  var (
    status       sql.NullInt64
    passwordHash sql.NullString
  )
  row := h.db.QueryRowContext(c.Request.Context(), "SELECT status, password_hash FROM users WHERE id = ? LIMIT 1", claims.UserID)
  if err := row.Scan(&status, &passwordHash); err != nil {
    if err == sql.ErrNoRows {
      c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
      return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
    return
  }

  if status.Valid && status.Int64 == 0 {
    c.JSON(http.StatusForbidden, gin.H{"error": "user disabled"})
    return
  }
  if !passwordHash.Valid || strings.TrimSpace(passwordHash.String) == "" {
    c.JSON(http.StatusForbidden, gin.H{"error": "password not set"})
    return
  }
  if !h.auth.VerifyPassword(passwordHash.String, oldPassword) {
    c.JSON(http.StatusBadRequest, gin.H{"error": "old password is incorrect"})
    return
  }

  hash, err := h.auth.HashPassword(newPassword)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
    return
  }

  if _, err := h.db.ExecContext(c.Request.Context(), "UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?", hash, time.Now(), claims.UserID); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
    return
  }

  c.JSON(http.StatusOK, gin.H{"id": claims.UserID})
}

type userRow struct {
  id          int64
  username    string
  email       sql.NullString
  displayName sql.NullString
  role        sql.NullString
  status      sql.NullInt64
  createdAt   sql.NullTime
  lastLoginAt sql.NullTime
}

func (h *UserHandler) queryUsers(c *gin.Context) ([]userRow, error) {
  rows, err := h.db.QueryContext(
    c.Request.Context(),
    "SELECT id, username, email, display_name, role, status, created_at, last_login_at FROM users ORDER BY id DESC",
  )
  if err != nil {
    return nil, err
  }
  defer rows.Close()

  out := make([]userRow, 0)
  for rows.Next() {
    var u userRow
    if err := rows.Scan(&u.id, &u.username, &u.email, &u.displayName, &u.role, &u.status, &u.createdAt, &u.lastLoginAt); err != nil {
      return nil, err
    }
    out = append(out, u)
  }
  return out, rows.Err()
}

func (h *UserHandler) ready(c *gin.Context) bool {
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

func parseRole(raw string) (string, bool) {
  role := strings.ToLower(strings.TrimSpace(raw))
  if role == "" {
    role = "user"
  }
  return role, role == "admin" || role == "user"
}
