package services_test

import (
  "strings"
  "testing"

  "sitekit/internal/config"
  "sitekit/internal/services"
  "sitekit/internal/util"
)

func TestAuthServiceHashVerify(t *testing.T) {
  cfg := &config.Config{JwtSecret: "test-secret", JwtIssuer: "test", JwtExpireHours: 1}
  service, err := services.NewAuthService(cfg)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  hash, err := service.HashPassword("pass123")
  if err != nil {
    t.Fatalf("hash failed: %v", err)
  }

  if !service.VerifyPassword(hash, "pass123") {
    t.Fatalf("expected password match")
  }
  if service.VerifyPassword(hash, "wrong") {
    t.Fatalf("expected password mismatch")
  }
}

func TestAuthServiceGeneratePassword(t *testing.T) {
  cfg := &config.Config{JwtSecret: "test-secret", PasswordLength: 12}
  service, err := services.NewAuthService(cfg)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  password, hash, err := service.GeneratePassword()
  if err != nil {
    t.Fatalf("generate failed: %v", err)
  }
  if len(password) != 12 {
    t.Fatalf("expected 12 characters, got %q", password)
  }
  for _, ch := range password {
    if !strings.ContainsRune(util.PasswordCharacters, ch) {
      t.Fatalf("unexpected character %q", ch)
    }
  }
  if !service.VerifyPassword(hash, password) {
    t.Fatalf("generated password does not match its hash")
  }
}

func TestAuthServiceToken(t *testing.T) {
  cfg := &config.Config{JwtSecret: "test-secret", JwtIssuer: "test", JwtExpireHours: 1}
  service, err := services.NewAuthService(cfg)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  token, _, err := service.IssueToken(&services.AuthUser{
    ID:          10,
    Username:    "demo",
    DisplayName: "Demo",
    Role:        "admin",
  })
  if err != nil {
    t.Fatalf("issue token failed: %v", err)
  }

  claims, err := service.ParseToken(token)
  if err != nil {
    t.Fatalf("parse token failed: %v", err)
  }
  if claims.UserID != 10 || claims.Username != "demo" || claims.Role != "admin" {
    t.Fatalf("unexpected claims: %#v", claims)
  }

  other, _ := services.NewAuthService(&config.Config{JwtSecret: "test-secret", JwtIssuer: "other"})
  if _, err := other.ParseToken(token); err == nil {
    t.Fatalf("expected issuer mismatch")
  }
}
