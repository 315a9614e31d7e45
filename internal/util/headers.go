package util

import "strings"

// SpreadsheetContentType is the OOXML workbook MIME type sent with exports.
const SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet; charset=UTF-8"

// SpreadsheetHeadersForFilename returns the response headers for an xlsx
// download. Double quotes in filename are replaced by single quotes so the
// quoted disposition parameter stays intact.
func SpreadsheetHeadersForFilename(filename string) map[string]string {
  filename = strings.ReplaceAll(filename, `"`, "'")
  return map[string]string{
    "content-type":        SpreadsheetContentType,
    "content-disposition": `attachment;filename="` + filename + `"`,
    "cache-control":       "max-age=0",
  }
}
