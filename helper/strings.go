package helper

import (
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\- ]`)

// NormalizeFilename keeps letters, digits, dashes and spaces, turns spaces into
// underscores and appends ext. An empty result falls back to "event".
func NormalizeFilename(name, ext string) string {
	base := unsafeFilenameChars.ReplaceAllString(name, "")
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" {
		base = "event"
	}
	return base + ext
}
