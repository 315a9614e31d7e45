package util

var _ error = Error("")

// Error is a constant error value usable with errors.Is through wrapped chains.
type Error string

func (e Error) Error() string {
  return string(e)
}

const (
  // ErrNotDirectory is returned when a non-directory occupies a path that
  // should become a directory.
  ErrNotDirectory = Error("a file with this name exists")

  // ErrDirectoryNotCreated is returned by EnsureDirectoryExists when the
  // directory could not be created.
  ErrDirectoryNotCreated = Error("directory was not created")

  // ErrRandomUnavailable is returned when the secure random source fails.
  ErrRandomUnavailable = Error("secure random source unavailable")
)
