package config

import (
  "os"
  "path/filepath"
  "strconv"
  "strings"

  "github.com/joho/godotenv"
)

type Config struct {
  Env                  string
  Port                 string
  AppTimezone          string
  LogLevel             string
  PubDir               string
  UploadDirMode        os.FileMode
  PublicBaseURL        string
  MysqlDSN             string
  RedisAddr            string
  RedisPassword        string
  RedisDB              int
  OssEndpoint          string
  OssAccessKey         string
  OssSecret            string
  OssBucket            string
  OssInternal          string
  OssSignTTL           int64
  JwtSecret            string
  JwtIssuer            string
  JwtExpireHours       int
  PasswordLength       int
  ResetTokenBytes      int
  ResetTokenTTLMinutes int
  ExportAPIKey         string
}

func Load() (*Config, error) {
  _ = godotenv.Load("../.env", ".env")

  redisDB := 0
  if raw := os.Getenv("REDIS_DB"); raw != "" {
    parsed, err := strconv.Atoi(raw)
    if err != nil {
      return nil, err
    }
    redisDB = parsed
  }

  dirMode := os.FileMode(0o777)
  if raw := strings.TrimSpace(os.Getenv("UPLOAD_DIR_MODE")); raw != "" {
    parsed, err := strconv.ParseUint(raw, 8, 32)
    if err != nil {
      return nil, err
    }
    dirMode = os.FileMode(parsed) & os.ModePerm
  }

  pubDir, err := filepath.Abs(envOrDefault("PUB_DIR", "public"))
  if err != nil {
    return nil, err
  }

  cfg := &Config{
    Env:                  envOrDefault("APP_ENV", "dev"),
    Port:                 envOrDefault("APP_PORT", "8080"),
    AppTimezone:          envOrDefault("APP_TIMEZONE", "Europe/Amsterdam"),
    LogLevel:             envOrDefault("LOG_LEVEL", "info"),
    PubDir:               pubDir,
    UploadDirMode:        dirMode,
    PublicBaseURL:        strings.TrimSuffix(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/"),
    MysqlDSN:             normalizeMySQLDSN(os.Getenv("MYSQL_DSN")),
    RedisAddr:            envOrDefault("REDIS_ADDR", "127.0.0.1:6379"),
    RedisPassword:        os.Getenv("REDIS_PASSWORD"),
    RedisDB:              redisDB,
    OssEndpoint:          envOrDefault("ALI_URL", envOrDefault("ALI_ENDPOINT", "")),
    OssAccessKey:         os.Getenv("ALI_ACCESS_KEY_ID"),
    OssSecret:            os.Getenv("ALI_SECRET_ACCESS_KEY"),
    OssBucket:            os.Getenv("ALI_BUCKET"),
    OssInternal:          os.Getenv("ALI_INTERNAL_ENDPOINT"),
    OssSignTTL:           envInt64("OSS_SIGN_TTL", 3600),
    JwtSecret:            envOrDefault("JWT_SECRET", "dev-secret"),
    JwtIssuer:            envOrDefault("JWT_ISSUER", "sitekit"),
    JwtExpireHours:       envInt("JWT_EXPIRE_HOURS", 24),
    PasswordLength:       envInt("PASSWORD_LENGTH", 10),
    ResetTokenBytes:      envInt("RESET_TOKEN_BYTES", 16),
    ResetTokenTTLMinutes: envInt("RESET_TOKEN_TTL_MINUTES", 60),
    ExportAPIKey:         strings.TrimSpace(os.Getenv("EXPORT_API_KEY")),
  }

  return cfg, nil
}

// UploadDir returns the absolute directory holding uploaded files.
func (c *Config) UploadDir() string {
  return filepath.Join(c.PubDir, "uploads")
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
  env := strings.ToLower(strings.TrimSpace(c.Env))
  return env == "prod" || env == "production"
}

func envOrDefault(key, value string) string {
  if v := os.Getenv(key); v != "" {
    return v
  }
  return value
}

func envInt64(key string, value int64) int64 {
  if v := os.Getenv(key); v != "" {
    if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
      return parsed
    }
  }
  return value
}

func envInt(key string, value int) int {
  if v := os.Getenv(key); v != "" {
    if parsed, err := strconv.Atoi(v); err == nil {
      return parsed
    }
  }
  return value
}

func normalizeMySQLDSN(dsn string) string {
  if strings.TrimSpace(dsn) == "" {
    return dsn
  }
  dsn = ensureDSNParam(dsn, "parseTime", "true")
  dsn = ensureDSNParam(dsn, "loc", "Local")
  return dsn
}

func ensureDSNParam(dsn, key, value string) string {
  if strings.Contains(dsn, key+"=") {
    return dsn
  }
  sep := "?"
  if strings.Contains(dsn, "?") {
    sep = "&"
  }
  return dsn + sep + key + "=" + value
}
