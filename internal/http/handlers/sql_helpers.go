package handlers

import (
  "database/sql"
  "errors"
  "fmt"
  "sort"
  "strconv"
  "strings"
  "time"
)

// BuildUpdateSQL builds an UPDATE statement for the given column values,
// columns sorted by name.
func BuildUpdateSQL(table, idColumn string, id int64, payload map[string]interface{}) (string, []any, error) {
  if len(payload) == 0 {
    return "", nil, errors.New("empty payload")
  }

  keys := make([]string, 0, len(payload))
  for key := range payload {
    keys = append(keys, key)
  }
  sort.Strings(keys)

  setParts := make([]string, 0, len(keys))
  args := make([]any, 0, len(keys)+1)
  for _, key := range keys {
    setParts = append(setParts, quoteSQLIdent(key)+" = ?")
    args = append(args, payload[key])
  }
  args = append(args, id)

  sqlText := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", quoteSQLIdent(table), strings.Join(setParts, ","), quoteSQLIdent(idColumn))
  return sqlText, args, nil
}

func quoteSQLIdent(value string) string {
  trimmed := strings.TrimSpace(value)
  if trimmed == "" {
    return value
  }
  return "`" + strings.ReplaceAll(trimmed, "`", "``") + "`"
}

func nullIfEmpty(value string) interface{} {
  trimmed := strings.TrimSpace(value)
  if trimmed == "" {
    return nil
  }
  return trimmed
}

func nullableString(value sql.NullString) *string {
  if value.Valid {
    return &value.String
  }
  return nil
}

func nullableStringValue(value sql.NullString) string {
  if value.Valid {
    return value.String
  }
  return ""
}

func nullableInt(value sql.NullInt64) *int {
  if value.Valid {
    v := int(value.Int64)
    return &v
  }
  return nil
}

func nullableTimePointer(value sql.NullTime) *time.Time {
  if value.Valid {
    v := value.Time
    return &v
  }
  return nil
}

func parseInt64ParamValue(raw string) (int64, error) {
  trimmed := strings.TrimSpace(raw)
  if trimmed == "" {
    return 0, errors.New("empty id")
  }
  return strconv.ParseInt(trimmed, 10, 64)
}
