package store

import (
  "context"
  "database/sql"
  "time"

  _ "github.com/go-sql-driver/mysql"
)

// NewMySQL opens the users/members database and checks it is reachable.
func NewMySQL(dsn string) (*sql.DB, error) {
  db, err := sql.Open("mysql", dsn)
  if err != nil {
    return nil, err
  }

  db.SetConnMaxLifetime(5 * time.Minute)
  db.SetMaxIdleConns(2)
  db.SetMaxOpenConns(10)

  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := db.PingContext(ctx); err != nil {
    _ = db.Close()
    return nil, err
  }

  return db, nil
}
