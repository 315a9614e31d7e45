// Package logging builds the zap logger shared by the server and its helpers.
package logging

import (
  "go.uber.org/zap"
  "go.uber.org/zap/zapcore"
)

// Config defines logger configuration.
type Config struct {
  Level       string // "debug", "info", "warn", "error"
  Development bool
  OutputPaths []string
}

// New creates a zap logger from cfg. Development loggers write colored
// console lines, production loggers write JSON.
func New(cfg Config) (*zap.Logger, error) {
  level, err := parseLevel(cfg.Level)
  if err != nil {
    return nil, err
  }
  outputs := cfg.OutputPaths
  if len(outputs) == 0 {
    outputs = []string{"stdout"}
  }

  zapCfg := zap.Config{
    Level:             zap.NewAtomicLevelAt(level),
    Development:       cfg.Development,
    Encoding:          encodingFormat(cfg.Development),
    EncoderConfig:     encoderConfig(cfg.Development),
    OutputPaths:       outputs,
    ErrorOutputPaths:  []string{"stderr"},
    DisableStacktrace: !cfg.Development,
  }
  return zapCfg.Build()
}

// NewOrNop returns New(cfg), falling back to a no-op logger when the
// configuration cannot be built.
func NewOrNop(cfg Config) *zap.Logger {
  logger, err := New(cfg)
  if err != nil {
    return zap.NewNop()
  }
  return logger
}

func parseLevel(level string) (zapcore.Level, error) {
  if level == "" {
    return zapcore.InfoLevel, nil
  }
  var l zapcore.Level
  if err := l.UnmarshalText([]byte(level)); err != nil {
    return zapcore.InfoLevel, err
  }
  return l, nil
}

func encodingFormat(development bool) string {
  if development {
    return "console"
  }
  return "json"
}

func encoderConfig(development bool) zapcore.EncoderConfig {
  if development {
    cfg := zap.NewDevelopmentEncoderConfig()
    cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
    return cfg
  }
  cfg := zap.NewProductionEncoderConfig()
  cfg.TimeKey = "time"
  cfg.EncodeTime = zapcore.ISO8601TimeEncoder
  return cfg
}
