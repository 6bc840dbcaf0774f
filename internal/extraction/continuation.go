package extraction

import (
	"regexp"
	"strings"
)

// continuationMarker matches bullet points ("- x", "* x") and numbered list
// items ("1. x", "2) x").
var continuationMarker = regexp.MustCompile(`^\s*(?:[-*]|[0-9]+[.)])\s+`)

// continuationPrefixes are the labeled prefixes that tie a line to the
// preceding topic. Compared case-insensitively.
var continuationPrefixes = []string{
	"action:",
	"action item",
	"actions:",
	"discussion:",
	"notes:",
	"decision:",
}

// IsContinuation reports whether a line that carries no ticket ID of its own
// extends the preceding line's topic.
func IsContinuation(line string) bool {
	if line == "" {
		return false
	}
	if continuationMarker.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, prefix := range continuationPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
