package services

import (
  "context"
  "errors"
  "fmt"
  "strconv"
  "strings"
  "time"

  "github.com/redis/go-redis/v9"

  "sitekit/internal/config"
  "sitekit/internal/util"
)

const resetKeyPrefix = "password_reset:"

// ErrResetTokenInvalid is returned when a reset token is unknown, expired or
// already used.
var ErrResetTokenInvalid = errors.New("reset token invalid or expired")

type tokenStore interface {
  Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
  GetDel(ctx context.Context, key string) *redis.StringCmd
}

type ResetService struct {
  store      tokenStore
  mailer     Mailer
  tokenBytes int
  ttl        time.Duration
  baseURL    string
}

// ResetRequest identifies the account a reset link is sent for.
type ResetRequest struct {
  UserID   int64
  Username string
  Email    string
  Host     string
}

// NewResetService creates a password reset service.
// Args:
//   cfg: App config instance.
//   store: Redis client holding the tokens.
//   mailer: Mail transport for the reset link.
// Returns:
//   *ResetService: Initialized service.
//   error: Error when the token store or PUBLIC_BASE_URL is missing.
func NewResetService(cfg *config.Config, store tokenStore, mailer Mailer) (*ResetService, error) {
  if store == nil {
    return nil, errors.New("token store is required")
  }
  baseURL := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
  if baseURL == "" {
    return nil, errors.New("PUBLIC_BASE_URL is required for reset links")
  }
  if mailer == nil {
    mailer = LogMailer{}
  }
  tokenBytes := cfg.ResetTokenBytes
  if tokenBytes <= 0 {
    tokenBytes = 16
  }
  ttl := time.Duration(cfg.ResetTokenTTLMinutes) * time.Minute
  if ttl <= 0 {
    ttl = time.Hour
  }
  return &ResetService{
    store:      store,
    mailer:     mailer,
    tokenBytes: tokenBytes,
    ttl:        ttl,
    baseURL:    baseURL,
  }, nil
}

// Issue stores a new single-use token for the user and mails the reset link
// from the no-reply address of the request host.
// Args:
//   ctx: Request context.
//   req: Target account and request host.
// Returns:
//   string: Issued token.
//   error: Error when the token cannot be stored or mailed.
func (s *ResetService) Issue(ctx context.Context, req ResetRequest) (string, error) {
  if req.UserID <= 0 || strings.TrimSpace(req.Email) == "" {
    return "", errors.New("user with email is required")
  }
  token, err := util.GenerateToken(s.tokenBytes)
  if err != nil {
    return "", err
  }
  if err := s.store.Set(ctx, resetKeyPrefix+token, strconv.FormatInt(req.UserID, 10), s.ttl).Err(); err != nil {
    return "", fmt.Errorf("store reset token: %w", err)
  }

  mail := s.BuildMail(req, token)
  if err := s.mailer.Send(ctx, mail); err != nil {
    return "", fmt.Errorf("send reset mail: %w", err)
  }
  return token, nil
}

// BuildMail composes the reset mail for token. The request host only names
// the sender; the link always points at PUBLIC_BASE_URL.
func (s *ResetService) BuildMail(req ResetRequest, token string) Mail {
  link := s.baseURL + "/reset-password/" + token
  name := req.Username
  if name == "" {
    name = req.Email
  }
  body := fmt.Sprintf(
    "Hello %s,\n\nA password reset was requested for your account on %s.\nOpen the link below within %d minutes to choose a new password:\n\n%s\n\nIf you did not request this, you can ignore this mail.\n",
    name,
    util.Domain(req.Host),
    int(s.ttl.Minutes()),
    link,
  )
  return Mail{
    From:    util.NoreplyAddress(req.Host),
    To:      req.Email,
    Subject: "Password reset",
    Body:    body,
  }
}

// Consume resolves a token to its user id and invalidates it.
// Args:
//   ctx: Request context.
//   token: Token from the reset link.
// Returns:
//   int64: User id.
//   error: ErrResetTokenInvalid when unknown or already used.
func (s *ResetService) Consume(ctx context.Context, token string) (int64, error) {
  token = strings.TrimSpace(token)
  if token == "" {
    return 0, ErrResetTokenInvalid
  }
  raw, err := s.store.GetDel(ctx, resetKeyPrefix+token).Result()
  if errors.Is(err, redis.Nil) {
    return 0, ErrResetTokenInvalid
  }
  if err != nil {
    return 0, fmt.Errorf("read reset token: %w", err)
  }
  userID, err := strconv.ParseInt(raw, 10, 64)
  if err != nil || userID <= 0 {
    return 0, ErrResetTokenInvalid
  }
  return userID, nil
}

// Restore puts a consumed token back with a fresh TTL, for callers whose
// follow-up write failed after Consume.
func (s *ResetService) Restore(ctx context.Context, token string, userID int64) error {
  token = strings.TrimSpace(token)
  if token == "" || userID <= 0 {
    return ErrResetTokenInvalid
  }
  if err := s.store.Set(ctx, resetKeyPrefix+token, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
    return fmt.Errorf("restore reset token: %w", err)
  }
  return nil
}
