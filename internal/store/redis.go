package store

import (
  "context"
  "time"

  "github.com/redis/go-redis/v9"
)

// NewRedis connects to redis and verifies the connection with a ping. The
// client is returned even when the ping fails so callers can retry later.
func NewRedis(addr, password string, db int) (*redis.Client, error) {
  client := redis.NewClient(&redis.Options{
    Addr:         addr,
    Password:     password,
    DB:           db,
    DialTimeout:  3 * time.Second,
    ReadTimeout:  2 * time.Second,
    WriteTimeout: 2 * time.Second,
  })

  ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
  defer cancel()
  if err := client.Ping(ctx).Err(); err != nil {
    return client, err
  }
  return client, nil
}
