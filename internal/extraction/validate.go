package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yohamza/meet2jira/internal/domain"
)

// CandidateEntry is one key/value pair from an untrusted extraction payload,
// in the order the model emitted it. Values may be any JSON shape.
type CandidateEntry struct {
	Key   string
	Value any
}

// Sanitize is the sole gate between the model and anything that posts to a
// tracker. Entries whose key is not a well-formed ticket ID are dropped,
// surviving keys are canonicalized to uppercase, and values are coerced to
// string lists (a scalar becomes a single-element list). The per-ticket
// dedup invariant of TicketNotes applies while merging.
func Sanitize(entries []CandidateEntry) *domain.TicketNotes {
	notes := &domain.TicketNotes{}
	for _, entry := range entries {
		ticket, ok := CanonicalTicketID(entry.Key)
		if !ok {
			continue
		}
		for _, note := range noteStrings(entry.Value) {
			notes.Add(ticket, note)
		}
	}
	return notes
}

// noteStrings coerces an arbitrary JSON value to a list of note strings.
func noteStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			if s := stringify(elem); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := stringify(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// decodeCandidates parses a JSON object into candidate entries while keeping
// the document's key order, which json.Unmarshal into a map would lose.
func decodeCandidates(payload string) ([]CandidateEntry, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(payload))))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("extraction: decode candidates: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("extraction: decode candidates: payload is not a JSON object")
	}

	var entries []CandidateEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("extraction: decode candidate key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("extraction: decode candidates: non-string key")
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("extraction: decode candidate value for %q: %w", key, err)
		}
		entries = append(entries, CandidateEntry{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("extraction: decode candidates: %w", err)
	}
	return entries, nil
}
