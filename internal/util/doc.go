// Package util holds small stateless helpers shared by the handlers: password
// and token generation, host to domain mapping, slugs, directory creation,
// quarter dates, upload path to URL mapping, best-effort deletion and
// spreadsheet download headers.
//
// Ambient inputs such as the upload directory, the request host or the
// current time are always passed in by the caller.
package util
