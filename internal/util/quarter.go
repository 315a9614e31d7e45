package util

import "time"

// QuarterOf returns the calendar quarter (1-4) of t.
func QuarterOf(t time.Time) int {
  return (int(t.Month())-1)/3 + 1
}

// StartOfNextQuarter returns midnight on the first day of the quarter after
// the one containing now, in now's location.
func StartOfNextQuarter(now time.Time) time.Time {
  year := now.Year()
  var month time.Month
  switch QuarterOf(now) {
  case 1:
    month = time.April
  case 2:
    month = time.July
  case 3:
    month = time.October
  default:
    month = time.January
    year++
  }
  return time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
}
