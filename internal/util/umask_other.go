//go:build !unix

package util

// withUmask runs fn directly on platforms without a umask.
func withUmask(_ int, fn func()) {
  fn()
}
