package util

import (
  "crypto/rand"
  "encoding/hex"
  "fmt"
  "math/big"
)

// PasswordCharacters is the alphabet for generated passwords. Glyphs that are
// easy to confuse when read aloud or handwritten are left out.
const PasswordCharacters = "acdefhjmnqrtACDEFHJLMNQRT3478"

// DefaultPasswordLength is the length used for generated account passwords.
const DefaultPasswordLength = 10

var passwordAlphabetSize = big.NewInt(int64(len(PasswordCharacters)))

// GeneratePassword returns length characters drawn uniformly from
// PasswordCharacters using crypto/rand.
// Args:
//   length: Number of characters. Values below zero yield an empty password.
// Returns:
//   string: Generated password.
//   error: ErrRandomUnavailable when the random source fails.
func GeneratePassword(length int) (string, error) {
  if length <= 0 {
    return "", nil
  }
  buf := make([]byte, length)
  for i := range buf {
    n, err := rand.Int(rand.Reader, passwordAlphabetSize)
    if err != nil {
      return "", fmt.Errorf("%w: %v", ErrRandomUnavailable, err)
    }
    buf[i] = PasswordCharacters[n.Int64()]
  }
  return string(buf), nil
}

// GenerateToken returns length random bytes encoded as lower-case hex, so the
// result is 2*length characters long.
// Args:
//   length: Number of random bytes.
// Returns:
//   string: Hex token.
//   error: ErrRandomUnavailable when the random source fails.
func GenerateToken(length int) (string, error) {
  if length <= 0 {
    return "", nil
  }
  raw := make([]byte, length)
  if _, err := rand.Read(raw); err != nil {
    return "", fmt.Errorf("%w: %v", ErrRandomUnavailable, err)
  }
  return hex.EncodeToString(raw), nil
}
