package services

import (
  "bytes"
  "fmt"
  "strings"
  "time"

  "github.com/xuri/excelize/v2"

  "sitekit/internal/util"
)

// Workbook is a rendered xlsx export ready to be served.
type Workbook struct {
  Filename string
  Data     []byte
}

// Headers returns the download headers for the workbook.
func (w *Workbook) Headers() map[string]string {
  return util.SpreadsheetHeadersForFilename(w.Filename)
}

// BuildWorkbook renders a single-sheet workbook with a bold header row.
// Args:
//   title: Display title, also used for the sheet and file name.
//   header: Column titles.
//   rows: Cell values, one slice per row.
// Returns:
//   *Workbook: Rendered workbook.
//   error: Error when excelize fails.
func BuildWorkbook(title string, header []string, rows [][]interface{}) (*Workbook, error) {
  title = strings.TrimSpace(title)
  if title == "" {
    title = "Export"
  }

  f := excelize.NewFile()
  defer func() {
    _ = f.Close()
  }()

  sheet := sheetName(title)
  if err := f.SetSheetName("Sheet1", sheet); err != nil {
    return nil, err
  }

  headerRow := make([]interface{}, len(header))
  for i, h := range header {
    headerRow[i] = h
  }
  if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
    return nil, err
  }
  if len(header) > 0 {
    style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
    if err != nil {
      return nil, err
    }
    last, err := excelize.CoordinatesToCellName(len(header), 1)
    if err != nil {
      return nil, err
    }
    if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
      return nil, err
    }
  }

  for i, row := range rows {
    cell, err := excelize.CoordinatesToCellName(1, i+2)
    if err != nil {
      return nil, err
    }
    values := make([]interface{}, len(row))
    for j, v := range row {
      values[j] = cellValue(v)
    }
    if err := f.SetSheetRow(sheet, cell, &values); err != nil {
      return nil, fmt.Errorf("write row %d: %w", i+2, err)
    }
  }

  var buf bytes.Buffer
  if err := f.Write(&buf); err != nil {
    return nil, err
  }
  return &Workbook{Filename: title + ".xlsx", Data: buf.Bytes()}, nil
}

func cellValue(v interface{}) interface{} {
  switch value := v.(type) {
  case time.Time:
    if value.IsZero() {
      return ""
    }
    return value.Format("2006-01-02 15:04")
  case *time.Time:
    if value == nil || value.IsZero() {
      return ""
    }
    return value.Format("2006-01-02 15:04")
  case nil:
    return ""
  default:
    return v
  }
}

// sheetName trims title to the 31 characters allowed for sheet names and
// drops the characters excel rejects.
func sheetName(title string) string {
  cleaned := strings.Map(func(r rune) rune {
    switch r {
    case ':', '\\', '/', '?', '*', '[', ']':
      return -1
    }
    return r
  }, title)
  runes := []rune(cleaned)
  if len(runes) > 31 {
    runes = runes[:31]
  }
  if len(runes) == 0 {
    return "Export"
  }
  return string(runes)
}
