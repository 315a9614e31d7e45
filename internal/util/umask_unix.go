//go:build unix

package util

import (
  "sync"

  "golang.org/x/sys/unix"
)

// umaskMu serialises umask changes made by this package; the umask itself is
// process wide.
var umaskMu sync.Mutex

// withUmask runs fn with the process umask set to mask and restores the
// previous value afterwards, even when fn panics.
func withUmask(mask int, fn func()) {
  umaskMu.Lock()
  defer umaskMu.Unlock()

  old := unix.Umask(mask)
  defer unix.Umask(old)
  fn()
}
