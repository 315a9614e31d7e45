package main

import (
  "errors"
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  "go.uber.org/zap"

  "sitekit/internal/config"
  apphttp "sitekit/internal/http"
  "sitekit/internal/logging"
  "sitekit/internal/store"
  "sitekit/internal/util"
)

func main() {
  cfg, err := config.Load()
  if err != nil {
    panic("load config failed: " + err.Error())
  }

  logger := logging.NewOrNop(logging.Config{
    Level:       cfg.LogLevel,
    Development: !cfg.IsProduction(),
  })
  defer func() {
    _ = logger.Sync()
  }()
  util.SetLogger(logger.Named("util"))

  if cfg.AppTimezone != "" {
    if loc, err := time.LoadLocation(cfg.AppTimezone); err != nil {
      logger.Warn("load timezone failed", zap.String("timezone", cfg.AppTimezone), zap.Error(err))
    } else {
      time.Local = loc
    }
  }

  if err := util.EnsureDirectoryExists(cfg.UploadDir()); err != nil {
    logger.Fatal("upload directory unavailable", zap.Error(err))
  }

  if cfg.IsProduction() {
    gin.SetMode(gin.ReleaseMode)
  }

  deps := apphttp.Deps{Logger: logger}

  if cfg.MysqlDSN != "" {
    db, err := store.NewMySQL(cfg.MysqlDSN)
    if err != nil {
      logger.Error("mysql connect failed", zap.Error(err))
    } else {
      deps.DB = db
      if err := store.ApplyMigrations(db); err != nil {
        logger.Error("apply migrations failed", zap.Error(err))
      }
    }
  } else {
    logger.Warn("MYSQL_DSN not set, skip mysql connection")
  }

  redisClient, err := store.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
  if err != nil {
    logger.Warn("redis connect failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
  }
  deps.Redis = redisClient

  router := apphttp.NewRouter(cfg, &deps)
  server := &http.Server{
    Addr:              ":" + cfg.Port,
    Handler:           router,
    ReadHeaderTimeout: 5 * time.Second,
  }

  logger.Info("server listening",
    zap.String("addr", server.Addr),
    zap.String("upload_dir", cfg.UploadDir()),
  )
  if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
    logger.Fatal("server exited", zap.Error(err))
  }
}
