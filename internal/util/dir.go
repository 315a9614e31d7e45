package util

import (
  "errors"
  "fmt"
  "os"

  "go.uber.org/zap"
)

// DefaultDirMode is the permission set requested for new directories.
const DefaultDirMode os.FileMode = 0o777

// CreateDir creates path and any missing parents with exactly mode, the
// process umask being cleared for the duration of the call.
//
// An existing directory is reported as success. An existing non-directory
// yields ErrNotDirectory. Any other creation failure is reported as false
// with a nil error.
//
// The existence check and the creation are not atomic; two callers racing on
// the same path may both attempt the mkdir, which MkdirAll tolerates.
func CreateDir(path string, mode os.FileMode) (bool, error) {
  info, err := os.Stat(path)
  if err == nil {
    if info.IsDir() {
      return true, nil
    }
    return false, fmt.Errorf("%w: %s", ErrNotDirectory, path)
  }

  var mkErr error
  withUmask(0, func() {
    mkErr = os.MkdirAll(path, mode)
  })
  if mkErr != nil {
    log().Debug("create directory failed", zap.String("path", path), zap.Error(mkErr))
    return false, nil
  }
  return true, nil
}

// EnsureDirectoryExists creates path with DefaultDirMode unless it already is
// a directory. A failed creation is escalated to ErrDirectoryNotCreated.
func EnsureDirectoryExists(path string) error {
  if isDir(path) {
    return nil
  }
  ok, err := CreateDir(path, DefaultDirMode)
  if err != nil {
    if errors.Is(err, ErrNotDirectory) {
      return fmt.Errorf("directory %q was not created: %w", path, err)
    }
    return err
  }
  if !ok {
    return fmt.Errorf("%w: %q", ErrDirectoryNotCreated, path)
  }
  return nil
}

func isDir(path string) bool {
  info, err := os.Stat(path)
  return err == nil && info.IsDir()
}
