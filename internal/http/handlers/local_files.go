package handlers

import (
  "errors"
  "io"
  "net/http"
  "os"
  "path/filepath"
  "strings"

  "github.com/gin-gonic/gin"
  "go.uber.org/zap"

  "sitekit/internal/config"
  "sitekit/internal/services"
  "sitekit/internal/util"
)

type UploadHandler struct {
  cfg    *config.Config
  oss    *services.OSSService
  logger *zap.Logger
}

type deleteUploadRequest struct {
  URL string `json:"url"`
}

// NewUploadHandler creates a handler for files in the public upload directory.
// Args:
//   cfg: App config instance.
//   oss: Optional OSS mirror, may be nil.
//   logger: Logger for mirror failures.
// Returns:
//   *UploadHandler: Initialized handler.
func NewUploadHandler(cfg *config.Config, oss *services.OSSService, logger *zap.Logger) *UploadHandler {
  if logger == nil {
    logger = zap.NewNop()
  }
  return &UploadHandler{cfg: cfg, oss: oss, logger: logger}
}

// Upload stores a multipart file under the upload directory and returns its
// web path.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *UploadHandler) Upload(c *gin.Context) {
  file, header, err := c.Request.FormFile("file")
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
    return
  }
  defer func() {
    _ = file.Close()
  }()

  name, err := uploadFileName(header.Filename)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }

  dir := h.cfg.UploadDir()
  if folder := uploadFolder(c.PostForm("folder")); folder != "" {
    dir = filepath.Join(dir, filepath.FromSlash(folder))
  }

  ok, err := util.CreateDir(dir, h.cfg.UploadDirMode)
  if errors.Is(err, util.ErrNotDirectory) {
    c.JSON(http.StatusConflict, gin.H{"error": "folder is occupied by a file"})
    return
  }
  if err != nil || !ok {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
    return
  }

  absPath := filepath.Join(dir, name)
  output, err := os.Create(absPath)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
    return
  }
  if _, err := io.Copy(output, file); err != nil {
    _ = output.Close()
    util.DeleteFile(absPath)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
    return
  }
  if err := output.Close(); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
    return
  }

  response := gin.H{
    "url":       uploadWebPath(h.cfg, absPath),
    "file_name": header.Filename,
    "size":      header.Size,
  }
  if h.oss != nil {
    key, err := h.oss.Mirror(absPath)
    if err != nil {
      h.logger.Warn("oss mirror failed", zap.String("path", absPath), zap.Error(err))
    } else {
      response["object_key"] = key
    }
  }

  c.JSON(http.StatusOK, response)
}

// Delete removes an uploaded file by its web path. A missing file is
// reported as deleted.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *UploadHandler) Delete(c *gin.Context) {
  var req deleteUploadRequest
  if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
    return
  }

  absPath, err := resolveUploadURL(h.cfg, req.URL)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  if info, err := os.Stat(absPath); err == nil && info.IsDir() {
    c.JSON(http.StatusBadRequest, gin.H{"error": "not a file"})
    return
  }

  deleted := util.DeleteFile(absPath)
  if deleted && h.oss != nil {
    if err := h.oss.Remove(absPath); err != nil {
      h.logger.Warn("oss remove failed", zap.String("path", absPath), zap.Error(err))
    }
  }

  c.JSON(http.StatusOK, gin.H{
    "url":     uploadWebPath(h.cfg, absPath),
    "deleted": deleted,
  })
}

// Serve returns an uploaded file.
// Args:
//   c: Gin context.
// Returns:
//   None.
func (h *UploadHandler) Serve(c *gin.Context) {
  absPath, err := buildUploadFilePath(h.cfg, c.Param("path"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path"})
    return
  }
  info, err := os.Stat(absPath)
  if err != nil || info.IsDir() {
    c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
    return
  }
  c.File(absPath)
}
