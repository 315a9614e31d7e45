package util

import (
  "sync/atomic"

  "go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// SetLogger replaces the logger used for swallowed filesystem failures.
// A nil logger resets to a no-op logger.
func SetLogger(l *zap.Logger) {
  if l == nil {
    l = zap.NewNop()
  }
  logger.Store(l)
}

func log() *zap.Logger {
  if l := logger.Load(); l != nil {
    return l
  }
  return zap.NewNop()
}
