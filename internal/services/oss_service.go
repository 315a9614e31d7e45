package services

import (
  "context"
  "fmt"
  "net/url"
  "strings"
  "time"

  "github.com/aliyun/aliyun-oss-go-sdk/oss"
  "github.com/redis/go-redis/v9"

  "sitekit/internal/config"
  "sitekit/internal/util"
)

// OSSService mirrors files from the local upload directory to an OSS bucket.
// Object keys are the web paths of the files without the leading slash.
type OSSService struct {
  bucket         *oss.Bucket
  internalBucket *oss.Bucket
  uploadDir      string
  redisClient    *redis.Client
  signTTL        time.Duration
}

// OSSConfigured reports whether cfg carries a complete OSS configuration.
func OSSConfigured(cfg *config.Config) bool {
  return cfg.OssEndpoint != "" && cfg.OssAccessKey != "" && cfg.OssSecret != "" && cfg.OssBucket != ""
}

// NewOSSService creates a new OSS service instance.
// Args:
//   cfg: App config instance with OSS settings.
//   redisClient: Redis client for signed URL cache, may be nil.
// Returns:
//   *OSSService: Initialized OSS service.
//   error: Error when config or OSS client initialization fails.
func NewOSSService(cfg *config.Config, redisClient *redis.Client) (*OSSService, error) {
  if !OSSConfigured(cfg) {
    return nil, fmt.Errorf("oss config is incomplete")
  }

  client, err := oss.New(cfg.OssEndpoint, cfg.OssAccessKey, cfg.OssSecret, oss.UseCname(true))
  if err != nil {
    return nil, err
  }

  bucket, err := client.Bucket(cfg.OssBucket)
  if err != nil {
    return nil, err
  }

  var internalBucket *oss.Bucket
  if cfg.OssInternal != "" {
    internalClient, err := oss.New(cfg.OssInternal, cfg.OssAccessKey, cfg.OssSecret, oss.UseCname(true))
    if err == nil {
      internalBucket, _ = internalClient.Bucket(cfg.OssBucket)
    }
  }

  ttl := time.Duration(cfg.OssSignTTL) * time.Second
  if ttl <= 0 {
    ttl = time.Hour
  }

  return &OSSService{
    bucket:         bucket,
    internalBucket: internalBucket,
    uploadDir:      cfg.UploadDir(),
    redisClient:    redisClient,
    signTTL:        ttl,
  }, nil
}

// Mirror uploads a local file to the bucket.
// Args:
//   localPath: Absolute path inside the upload directory.
// Returns:
//   string: Object key.
//   error: Error when the path is outside uploads or the upload fails.
func (s *OSSService) Mirror(localPath string) (string, error) {
  key, err := ObjectKey(s.uploadDir, localPath)
  if err != nil {
    return "", err
  }
  bucket := s.bucket
  if s.internalBucket != nil {
    bucket = s.internalBucket
  }
  return key, bucket.PutObjectFromFile(key, localPath)
}

// Remove deletes the mirrored copy of a local file.
// Args:
//   localPath: Absolute path inside the upload directory.
// Returns:
//   error: Error when the delete fails.
func (s *OSSService) Remove(localPath string) error {
  key, err := ObjectKey(s.uploadDir, localPath)
  if err != nil {
    return err
  }
  return s.bucket.DeleteObject(key)
}

// GetSignedURL builds a signed GET URL for an upload web path such as
// /uploads/a.png.
// Args:
//   webPath: Upload web path.
// Returns:
//   string: Signed URL or empty string when path is empty.
//   error: Error when generating URL.
func (s *OSSService) GetSignedURL(ctx context.Context, webPath string) (string, error) {
  if webPath == "" {
    return "", nil
  }
  if strings.HasPrefix(webPath, "http") {
    return webPath, nil
  }

  cacheKey := "oss_signed:" + webPath
  if cached, ok := s.getSignedURLFromCache(ctx, cacheKey); ok {
    return cached, nil
  }

  signedURL, err := s.bucket.SignURL(strings.TrimPrefix(webPath, "/"), oss.HTTPGet, int64(s.signTTL.Seconds()))
  if err != nil {
    return "", err
  }

  signedURL = unescapeSignedURL(signedURL)
  s.setSignedURLCache(ctx, cacheKey, signedURL)
  return signedURL, nil
}

// ObjectKey maps a file inside uploadDir to its bucket key.
func ObjectKey(uploadDir, localPath string) (string, error) {
  webPath := util.FilenameToURL(uploadDir, localPath)
  if webPath == localPath {
    return "", fmt.Errorf("path %q is outside the upload directory", localPath)
  }
  key := strings.TrimPrefix(webPath, "/")
  if key == "" {
    return "", fmt.Errorf("path %q has no object key", localPath)
  }
  return key, nil
}

func unescapeSignedURL(raw string) string {
  if idx := strings.Index(raw, "?"); idx != -1 {
    pathPart := raw[:idx]
    queryPart := raw[idx:]
    pathPart, _ = url.PathUnescape(pathPart)
    return pathPart + queryPart
  }
  decoded, _ := url.PathUnescape(raw)
  return decoded
}

func (s *OSSService) getSignedURLFromCache(ctx context.Context, key string) (string, bool) {
  if s.redisClient == nil {
    return "", false
  }
  ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
  defer cancel()

  val, err := s.redisClient.Get(ctx, key).Result()
  if err != nil {
    return "", false
  }
  return val, true
}

func (s *OSSService) setSignedURLCache(ctx context.Context, key, value string) {
  if s.redisClient == nil {
    return
  }
  ttl := s.signTTL - 5*time.Minute
  if ttl <= 0 {
    ttl = s.signTTL
  }

  ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
  defer cancel()
  _ = s.redisClient.Set(ctx, key, value, ttl).Err()
}
