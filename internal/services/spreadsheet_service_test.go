package services

import (
  "bytes"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "github.com/xuri/excelize/v2"
)

func TestBuildWorkbook(t *testing.T) {
  expires := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
  book, err := BuildWorkbook(`Members "Q4"`, []string{"Name", "Expires"}, [][]interface{}{
    {"Anna", expires},
    {"Bob", nil},
  })
  require.NoError(t, err)
  assert.Equal(t, `Members "Q4".xlsx`, book.Filename)
  assert.Equal(t, `attachment;filename="Members 'Q4'.xlsx"`, book.Headers()["content-disposition"])

  f, err := excelize.OpenReader(bytes.NewReader(book.Data))
  require.NoError(t, err)
  defer func() {
    _ = f.Close()
  }()

  rows, err := f.GetRows(`Members "Q4"`)
  require.NoError(t, err)
  require.Len(t, rows, 3)
  assert.Equal(t, []string{"Name", "Expires"}, rows[0])
  assert.Equal(t, []string{"Anna", "2025-01-01 00:00"}, rows[1])
  assert.Equal(t, "Bob", rows[2][0])
}

func TestSheetName(t *testing.T) {
  assert.Equal(t, "Export", sheetName("[]"))
  assert.Equal(t, "ab", sheetName("a/b"))
  assert.Len(t, []rune(sheetName("a very long export title that exceeds the limit")), 31)
}

func TestObjectKey(t *testing.T) {
  key, err := ObjectKey("/srv/public/uploads", "/srv/public/uploads/img/a.png")
  require.NoError(t, err)
  assert.Equal(t, "uploads/img/a.png", key)

  key, err = ObjectKey("/uploads", "/uploads/img/a.png")
  require.NoError(t, err)
  assert.Equal(t, "uploads/img/a.png", key)

  _, err = ObjectKey("/srv/public/uploads", "/etc/passwd")
  assert.Error(t, err)
}
