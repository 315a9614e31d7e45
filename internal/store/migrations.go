package store

import (
  "database/sql"
  "embed"
  "fmt"
  "io/fs"
  "sort"
  "strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ApplyMigrations executes the embedded SQL migrations in file name order.
// Every statement is written to be idempotent.
func ApplyMigrations(db *sql.DB) error {
  if db == nil {
    return fmt.Errorf("db is nil")
  }
  statements, err := migrationStatements(migrationFiles)
  if err != nil {
    return err
  }
  for _, stmt := range statements {
    if _, err := db.Exec(stmt.sql); err != nil {
      return fmt.Errorf("apply migration %s failed: %w", stmt.file, err)
    }
  }
  return nil
}

type migrationStatement struct {
  file string
  sql  string
}

func migrationStatements(fsys fs.FS) ([]migrationStatement, error) {
  names, err := fs.Glob(fsys, "migrations/*.sql")
  if err != nil {
    return nil, err
  }
  sort.Strings(names)

  out := make([]migrationStatement, 0)
  for _, name := range names {
    raw, err := fs.ReadFile(fsys, name)
    if err != nil {
      return nil, fmt.Errorf("read migration %s failed: %w", name, err)
    }
    for _, stmt := range splitSQLStatements(string(raw)) {
      if strings.TrimSpace(stmt) == "" {
        continue
      }
      out = append(out, migrationStatement{file: name, sql: strings.TrimSpace(stmt)})
    }
  }
  return out, nil
}

func splitSQLStatements(content string) []string {
  cleaned := strings.ReplaceAll(content, "\r\n", "\n")
  return strings.Split(cleaned, ";")
}
