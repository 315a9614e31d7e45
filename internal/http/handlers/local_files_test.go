package handlers_test

import (
  "bytes"
  "encoding/json"
  "mime/multipart"
  "net/http"
  "net/http/httptest"
  "os"
  "path/filepath"
  "strings"
  "testing"

  "github.com/gin-gonic/gin"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "sitekit/internal/config"
  "sitekit/internal/http/handlers"
)

func newUploadRouter(t *testing.T) (*gin.Engine, *config.Config) {
  t.Helper()
  gin.SetMode(gin.TestMode)
  cfg := &config.Config{PubDir: t.TempDir(), UploadDirMode: 0o755}

  h := handlers.NewUploadHandler(cfg, nil, nil)
  router := gin.New()
  router.GET("/uploads/*path", h.Serve)
  router.POST("/api/uploads", h.Upload)
  router.DELETE("/api/uploads", h.Delete)
  return router, cfg
}

func uploadRequest(t *testing.T, folder, filename, content string) *http.Request {
  t.Helper()
  var body bytes.Buffer
  writer := multipart.NewWriter(&body)
  if folder != "" {
    require.NoError(t, writer.WriteField("folder", folder))
  }
  part, err := writer.CreateFormFile("file", filename)
  require.NoError(t, err)
  _, err = part.Write([]byte(content))
  require.NoError(t, err)
  require.NoError(t, writer.Close())

  req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
  req.Header.Set("Content-Type", writer.FormDataContentType())
  return req
}

func deleteRequest(url string) *http.Request {
  payload, _ := json.Marshal(map[string]string{"url": url})
  req := httptest.NewRequest(http.MethodDelete, "/api/uploads", bytes.NewReader(payload))
  req.Header.Set("Content-Type", "application/json")
  return req
}

func TestUploadServeDelete(t *testing.T) {
  router, cfg := newUploadRouter(t)

  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, uploadRequest(t, "Team Photos", "Group Shot.JPG", "jpeg-bytes"))
  require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

  var uploaded struct {
    URL      string `json:"url"`
    FileName string `json:"file_name"`
  }
  require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
  assert.True(t, strings.HasPrefix(uploaded.URL, "/uploads/team-photos/group-shot-"), uploaded.URL)
  assert.True(t, strings.HasSuffix(uploaded.URL, ".jpg"), uploaded.URL)
  assert.Equal(t, "Group Shot.JPG", uploaded.FileName)

  onDisk := filepath.Join(cfg.PubDir, filepath.FromSlash(uploaded.URL))
  content, err := os.ReadFile(onDisk)
  require.NoError(t, err)
  assert.Equal(t, "jpeg-bytes", string(content))

  rec = httptest.NewRecorder()
  router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, uploaded.URL, nil))
  assert.Equal(t, http.StatusOK, rec.Code)
  assert.Equal(t, "jpeg-bytes", rec.Body.String())

  rec = httptest.NewRecorder()
  router.ServeHTTP(rec, deleteRequest(uploaded.URL))
  require.Equal(t, http.StatusOK, rec.Code)
  assert.JSONEq(t, `{"url":"`+uploaded.URL+`","deleted":true}`, rec.Body.String())

  rec = httptest.NewRecorder()
  router.ServeHTTP(rec, deleteRequest(uploaded.URL))
  require.Equal(t, http.StatusOK, rec.Code)
  assert.JSONEq(t, `{"url":"`+uploaded.URL+`","deleted":false}`, rec.Body.String())
  _, err = os.Stat(onDisk)
  assert.True(t, os.IsNotExist(err))

  rec = httptest.NewRecorder()
  router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, uploaded.URL, nil))
  assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadFolderOccupiedByFile(t *testing.T) {
  router, cfg := newUploadRouter(t)
  require.NoError(t, os.MkdirAll(cfg.UploadDir(), 0o755))
  require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadDir(), "docs"), []byte("x"), 0o644))

  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, uploadRequest(t, "docs", "a.txt", "hello"))
  assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUploadRequiresFile(t *testing.T) {
  router, _ := newUploadRouter(t)

  req := httptest.NewRequest(http.MethodPost, "/api/uploads", strings.NewReader(""))
  req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, req)
  assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRejectsPathsOutsideUploads(t *testing.T) {
  router, _ := newUploadRouter(t)

  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, deleteRequest("/etc/passwd"))
  assert.Equal(t, http.StatusBadRequest, rec.Code)

  rec = httptest.NewRecorder()
  router.ServeHTTP(rec, deleteRequest(""))
  assert.Equal(t, http.StatusBadRequest, rec.Code)
}
