// Package extraction turns raw meeting transcripts into ticket-note mappings
// and action-item lists. Two extractors implement the same contract: a
// deterministic line-heuristic one and one backed by a chat model whose
// output is sanitized before use.
package extraction

import (
	"regexp"
	"strings"
)

// ticketIDPattern matches canonical PROJECT-NUMBER ticket IDs inside prose.
// Matching is exact-case so lowercase words like "follow-up" or "e-2e" never
// register as tickets.
var ticketIDPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]+-[0-9]+\b`)

// ticketKeyPattern is the lenient form used for validating keys coming out of
// the model, which may not preserve case. It must match the whole key.
var ticketKeyPattern = regexp.MustCompile(`(?i)^[A-Z][A-Z0-9]+-[0-9]+$`)

// TicketIDs returns the distinct ticket IDs found in line, left to right.
func TicketIDs(line string) []string {
	matches := ticketIDPattern.FindAllString(line, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// CanonicalTicketID reports whether key is a well-formed ticket ID in any
// casing and returns its uppercase canonical form.
func CanonicalTicketID(key string) (string, bool) {
	if !ticketKeyPattern.MatchString(key) {
		return "", false
	}
	return strings.ToUpper(key), true
}

func containsTicketID(line string) bool {
	return ticketIDPattern.MatchString(line)
}
