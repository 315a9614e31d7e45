package http

import (
  "database/sql"

  "github.com/gin-gonic/gin"
  "github.com/redis/go-redis/v9"
  "go.uber.org/zap"

  "sitekit/internal/config"
  "sitekit/internal/http/handlers"
  "sitekit/internal/http/middleware"
  "sitekit/internal/logging"
  "sitekit/internal/services"
)

type Deps struct {
  DB     *sql.DB
  Redis  *redis.Client
  Logger *zap.Logger
  Mailer services.Mailer
}

func NewRouter(cfg *config.Config, deps *Deps) *gin.Engine {
  logger := deps.Logger
  if logger == nil {
    logger = zap.NewNop()
  }

  router := gin.New()
  router.Use(middleware.RequestID(), logging.Gin(logger), gin.Recovery(), middleware.Host())

  authService, err := services.NewAuthService(cfg)
  if err != nil {
    logger.Warn("auth disabled", zap.Error(err))
  }

  var resetService *services.ResetService
  if deps.Redis != nil {
    mailer := deps.Mailer
    if mailer == nil {
      mailer = services.LogMailer{Logger: logger.Named("mail")}
    }
    resetService, err = services.NewResetService(cfg, deps.Redis, mailer)
    if err != nil {
      logger.Warn("password reset disabled", zap.Error(err))
    }
  }

  var ossService *services.OSSService
  if services.OSSConfigured(cfg) {
    ossService, err = services.NewOSSService(cfg, deps.Redis)
    if err != nil {
      logger.Warn("oss mirror disabled", zap.Error(err))
    }
  }

  router.GET("/healthz", handlers.Health)

  uploadHandler := handlers.NewUploadHandler(cfg, ossService, logger.Named("uploads"))
  router.GET("/uploads/*path", uploadHandler.Serve)

  api := router.Group("/api")
  api.GET("/ping", handlers.Ping)

  authHandler := handlers.NewAuthHandler(deps.DB, authService, resetService, logger.Named("auth"))
  api.POST("/auth/login", authHandler.Login)
  api.POST("/auth/bootstrap", authHandler.Bootstrap)
  api.POST("/auth/password-reset", authHandler.RequestPasswordReset)
  api.POST("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

  userHandler := handlers.NewUserHandler(deps.DB, authService)
  memberHandler := handlers.NewMemberHandler(deps.DB)

  exports := api.Group("/exports", middleware.RequireAPIKey(cfg))
  exports.GET("/members", memberHandler.Export)

  secured := api.Group("")
  secured.Use(middleware.AuthRequired(authService))
  secured.GET("/auth/me", authHandler.Me)
  secured.PUT("/me/password", userHandler.ChangeMyPassword)

  secured.GET("/users", middleware.RequireAdmin(), userHandler.List)
  secured.GET("/users/export", middleware.RequireAdmin(), userHandler.Export)
  secured.POST("/users", middleware.RequireAdmin(), userHandler.Create)
  secured.PUT("/users/:id", middleware.RequireAdmin(), userHandler.Update)
  secured.POST("/users/:id/reset-password", middleware.RequireAdmin(), userHandler.ResetPassword)

  secured.GET("/members", memberHandler.List)
  secured.GET("/members/export", memberHandler.Export)
  secured.POST("/members", middleware.RequireAdmin(), memberHandler.Create)
  secured.POST("/members/:id/renew", middleware.RequireAdmin(), memberHandler.Renew)

  secured.POST("/uploads", uploadHandler.Upload)
  secured.DELETE("/uploads", uploadHandler.Delete)
  ossHandler := handlers.NewOSSHandler(ossService)
  secured.GET("/uploads/signed-url", ossHandler.SignURL)

  return router
}
