package util

import (
  "strings"
  "unicode"

  "github.com/mozillazg/go-pinyin"
)

// Slug lower-cases s (ASCII only) and turns every space into a hyphen.
// Punctuation and other characters are kept as they are.
func Slug(s string) string {
  var b strings.Builder
  b.Grow(len(s))
  for i := 0; i < len(s); i++ {
    ch := s[i]
    switch {
    case ch >= 'A' && ch <= 'Z':
      b.WriteByte(ch + ('a' - 'A'))
    case ch == ' ':
      b.WriteByte('-')
    default:
      b.WriteByte(ch)
    }
  }
  return b.String()
}

// PinyinSlug transliterates Han characters to toneless pinyin, separating each
// syllable with a space, and then applies Slug.
func PinyinSlug(s string) string {
  args := pinyin.NewArgs()
  args.Style = pinyin.Normal

  var b strings.Builder
  prevHan := false
  for _, r := range s {
    if !unicode.Is(unicode.Han, r) {
      if prevHan && r != ' ' {
        b.WriteByte(' ')
      }
      b.WriteRune(r)
      prevHan = false
      continue
    }
    parts := pinyin.LazyPinyin(string(r), args)
    if len(parts) == 0 {
      b.WriteRune(r)
      prevHan = false
      continue
    }
    if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
      b.WriteByte(' ')
    }
    b.WriteString(parts[0])
    prevHan = true
  }
  return Slug(b.String())
}
