package handlers

import (
  "path/filepath"
  "regexp"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "sitekit/internal/config"
)

func TestUploadFolder(t *testing.T) {
  assert.Equal(t, "team-photos/2024", uploadFolder("Team Photos/2024"))
  assert.Equal(t, "a/b", uploadFolder("/../a//b/.."))
  assert.Equal(t, "huo-dong", uploadFolder("活动"))
  assert.Equal(t, "", uploadFolder("  "))
}

func TestUploadFileName(t *testing.T) {
  name, err := uploadFileName("Annual Report.PDF")
  require.NoError(t, err)
  assert.Regexp(t, regexp.MustCompile(`^annual-report-[0-9a-f]{8}\.pdf$`), name)

  name, err = uploadFileName("../../etc/passwd")
  require.NoError(t, err)
  assert.Regexp(t, regexp.MustCompile(`^passwd-[0-9a-f]{8}\.bin$`), name)

  name, err = uploadFileName("!!!.png")
  require.NoError(t, err)
  assert.Regexp(t, regexp.MustCompile(`^file-[0-9a-f]{8}\.png$`), name)

  _, err = uploadFileName("")
  assert.Error(t, err)
}

func TestResolveUploadURL(t *testing.T) {
  cfg := &config.Config{PubDir: "/srv/public"}

  got, err := resolveUploadURL(cfg, "/uploads/img/a.png")
  require.NoError(t, err)
  assert.Equal(t, filepath.FromSlash("/srv/public/uploads/img/a.png"), got)

  got, err = resolveUploadURL(cfg, "https://example.com/uploads/img/a.png")
  require.NoError(t, err)
  assert.Equal(t, filepath.FromSlash("/srv/public/uploads/img/a.png"), got)

  got, err = resolveUploadURL(cfg, "/uploads/../../etc/passwd")
  require.NoError(t, err)
  assert.Equal(t, filepath.FromSlash("/srv/public/uploads/etc/passwd"), got)

  for _, bad := range []string{"/etc/passwd", "/uploads/", "uploads/a.png", ""} {
    _, err := resolveUploadURL(cfg, bad)
    assert.Error(t, err, bad)
  }
}

func TestUploadsUnderRootDirectory(t *testing.T) {
  cfg := &config.Config{PubDir: "/"}

  got, err := resolveUploadURL(cfg, "/uploads/img/a.png")
  require.NoError(t, err)
  assert.Equal(t, filepath.FromSlash("/uploads/img/a.png"), got)
  assert.Equal(t, "/uploads/img/a.png", uploadWebPath(cfg, got))
}

func TestUploadWebPath(t *testing.T) {
  cfg := &config.Config{PubDir: "/srv/public"}
  assert.Equal(t, "/uploads/img/a.png", uploadWebPath(cfg, "/srv/public/uploads/img/a.png"))
}

func TestBuildUpdateSQL(t *testing.T) {
  sqlText, args, err := BuildUpdateSQL("users", "id", 7, map[string]interface{}{"role": "admin", "email": nil})
  require.NoError(t, err)
  assert.Equal(t, "UPDATE `users` SET `email` = ?,`role` = ? WHERE `id` = ?", sqlText)
  assert.Equal(t, []any{nil, "admin", int64(7)}, args)

  _, _, err = BuildUpdateSQL("users", "id", 7, nil)
  assert.Error(t, err)
}
