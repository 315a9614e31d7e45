package util

import (
  "os"
  "path/filepath"
  "strings"

  "go.uber.org/zap"
)

// FilenameToURL maps a file inside uploadDir to a web path rooted at the
// parent of uploadDir, e.g. /var/app/uploads/a.png becomes /uploads/a.png.
// With uploadDir /uploads the parent is / and the result is uploads/a.png.
// Filenames outside uploadDir are returned unchanged.
func FilenameToURL(uploadDir, filename string) string {
  if uploadDir == "" || !strings.HasPrefix(filename, uploadDir) {
    return filename
  }
  return strings.TrimPrefix(filename, filepath.Dir(uploadDir))
}

// DeleteFile removes filename. Any failure, a missing file included, is
// logged and reported as false.
func DeleteFile(filename string) bool {
  err := os.Remove(filename)
  if err == nil {
    return true
  }
  log().Debug("delete file failed", zap.String("path", filename), zap.Error(err))
  return false
}
