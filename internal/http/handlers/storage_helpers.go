package handlers

import (
  "errors"
  "path"
  "path/filepath"
  "strings"

  "sitekit/internal/config"
  "sitekit/internal/util"
)

const uploadURLPrefix = "/uploads/"

var errInvalidUploadPath = errors.New("invalid path")

// buildUploadFilePath resolves a path relative to the upload directory and
// rejects anything escaping it.
func buildUploadFilePath(cfg *config.Config, relativePath string) (string, error) {
  cleaned := path.Clean("/" + strings.TrimSpace(filepath.ToSlash(relativePath)))
  if cleaned == "/" || strings.HasPrefix(cleaned, "/..") {
    return "", errInvalidUploadPath
  }
  return filepath.Join(cfg.UploadDir(), filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

// resolveUploadURL maps a web path returned by the upload endpoint back to
// the file on disk.
func resolveUploadURL(cfg *config.Config, webPath string) (string, error) {
  trimmed := strings.TrimSpace(webPath)
  if idx := strings.Index(trimmed, uploadURLPrefix); idx > 0 && strings.Contains(trimmed[:idx], "://") {
    trimmed = trimmed[idx:]
  }
  if !strings.HasPrefix(trimmed, uploadURLPrefix) {
    return "", errInvalidUploadPath
  }
  absPath, err := buildUploadFilePath(cfg, strings.TrimPrefix(trimmed, uploadURLPrefix))
  if err != nil {
    return "", err
  }
  if util.FilenameToURL(cfg.UploadDir(), absPath) == absPath {
    return "", errInvalidUploadPath
  }
  return absPath, nil
}

// uploadWebPath returns the public path of a file inside the upload
// directory. FilenameToURL drops the leading slash when the upload directory
// sits directly under /, so it is put back here.
func uploadWebPath(cfg *config.Config, absPath string) string {
  return "/" + strings.TrimPrefix(filepath.ToSlash(util.FilenameToURL(cfg.UploadDir(), absPath)), "/")
}

// uploadFolder turns a user supplied folder such as "Team Photos/2024" into
// slugged path segments.
func uploadFolder(raw string) string {
  parts := strings.Split(filepath.ToSlash(strings.TrimSpace(raw)), "/")
  cleaned := make([]string, 0, len(parts))
  for _, part := range parts {
    segment := sanitizePathSegment(util.PinyinSlug(part))
    if segment == "" {
      continue
    }
    cleaned = append(cleaned, segment)
  }
  return strings.Join(cleaned, "/")
}

// uploadFileName keeps a slug of the original name and appends a short random
// suffix so repeated uploads do not overwrite each other.
func uploadFileName(original string) (string, error) {
  base := filepath.Base(strings.TrimSpace(filepath.ToSlash(original)))
  if base == "" || base == "." || base == "/" {
    return "", errors.New("filename is required")
  }
  ext := strings.ToLower(filepath.Ext(base))
  stem := sanitizePathSegment(util.PinyinSlug(strings.TrimSuffix(base, filepath.Ext(base))))
  if stem == "" {
    stem = "file"
  }
  if ext == "" {
    ext = ".bin"
  }
  suffix, err := util.GenerateToken(4)
  if err != nil {
    return "", err
  }
  return stem + "-" + suffix + sanitizeExt(ext), nil
}

func sanitizePathSegment(value string) string {
  trimmed := strings.TrimSpace(value)
  if trimmed == "" {
    return ""
  }
  var builder strings.Builder
  for _, ch := range trimmed {
    switch {
    case ch >= 'a' && ch <= 'z':
      builder.WriteRune(ch)
    case ch >= 'A' && ch <= 'Z':
      builder.WriteRune(ch)
    case ch >= '0' && ch <= '9':
      builder.WriteRune(ch)
    case ch == '-' || ch == '_':
      builder.WriteRune(ch)
    }
  }
  return strings.Trim(builder.String(), "-")
}

func sanitizeExt(ext string) string {
  cleaned := sanitizePathSegment(strings.TrimPrefix(ext, "."))
  if cleaned == "" {
    return ".bin"
  }
  return "." + cleaned
}
