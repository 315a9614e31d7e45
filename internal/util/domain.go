package util

import "strings"

var domainStrips = []string{"www.", "http://", "https://", "/"}

// Domain strips "www.", "http://", "https://" and "/" from a host header
// value, in that order. The result is not validated as a hostname.
func Domain(host string) string {
  for _, s := range domainStrips {
    host = strings.ReplaceAll(host, s, "")
  }
  return host
}

// NoreplyAddress returns the no-reply mail address for the host.
func NoreplyAddress(host string) string {
  return "noreply@" + Domain(host)
}
