// Package redact strips filesystem layout and interpreter internals from
// error text before it reaches an MCP caller. The unredacted original is only
// ever written to the server-side audit log.
package redact

import (
	"regexp"
	"strings"
)

// MaxErrorLen is the hard cap on caller-visible error text.
const MaxErrorLen = 300

var (
	unixPathPattern = regexp.MustCompile(`/[\w\-./]+`)
	winPathPattern  = regexp.MustCompile(`[A-Za-z]:\\[\w\-\\/.]+`)
	lineRefPattern  = regexp.MustCompile(`(?i)line \d+`)
	colonRefPattern = regexp.MustCompile(`:\d+:`)
)

// sensitiveMarkers force the stricter fallback: the specific text is
// discarded entirely and replaced with a generic categorized message.
var sensitiveMarkers = []string{
	"/Users/", "/home/", "/root/",
	"C:\\Users", "%USERPROFILE%",
	"/tmp/", "/var/folders/", "\\Temp\\",
	"site-packages", "Traceback (most recent call last)",
}

// Error sanitizes host-reported error text for an external caller.
//
// Path-shaped substrings become [PATH], line locators are redacted, and a
// traceback collapses to its final line (the human-readable message). If
// sensitive markers survive the redaction, the text is discarded and one of a
// small set of generic messages is substituted instead. The result is always
// truncated to MaxErrorLen.
func Error(msg string) string {
	if msg == "" {
		return "An error occurred"
	}

	s := unixPathPattern.ReplaceAllString(msg, "[PATH]")
	s = winPathPattern.ReplaceAllString(s, "[PATH]")
	s = lineRefPattern.ReplaceAllString(s, "line [REDACTED]")
	s = colonRefPattern.ReplaceAllString(s, ":[REDACTED]:")

	// A traceback carries interpreter structure on every line except the
	// last, which holds the actual exception message.
	if strings.Contains(s, "Traceback") || strings.Contains(s, `File "`) {
		lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
		s = strings.TrimSpace(lines[len(lines)-1])
	}

	for _, marker := range sensitiveMarkers {
		if strings.Contains(s, marker) {
			s = genericMessage(msg)
			break
		}
	}

	return truncate(s, MaxErrorLen)
}

// genericMessage picks a categorized replacement by keyword matching on the
// original (unredacted) text.
func genericMessage(original string) string {
	lower := strings.ToLower(original)
	switch {
	case strings.Contains(lower, "permission") || strings.Contains(lower, "access denied"):
		return "Permission denied"
	case strings.Contains(lower, "not found") || strings.Contains(lower, "no such"):
		return "Resource not found"
	default:
		return "Operation failed"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
