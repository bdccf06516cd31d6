package schema

import (
	"regexp"
	"strings"
)

var schemeRegexp = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*):`)

var unsafeSchemes = map[string]bool{
	"javascript": true,
	"vbscript":   true,
	"data":       true,
}

// SanitizeURL prefixes values whose scheme can execute script with "unsafe:".
// Relative URLs and the usual network schemes pass through unchanged.
func SanitizeURL(value string) string {
	trimmed := strings.TrimSpace(value)
	match := schemeRegexp.FindStringSubmatch(trimmed)
	if match == nil {
		return value
	}
	if unsafeSchemes[strings.ToLower(match[1])] {
		return "unsafe:" + value
	}
	return value
}

// Sanitize applies the sanitizer of ctx to value
func Sanitize(ctx SecurityContext, value string) string {
	switch ctx {
	case SecurityContextURL, SecurityContextResourceURL:
		return SanitizeURL(value)
	default:
		return value
	}
}
