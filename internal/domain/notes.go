package domain

import (
	"bytes"
	"encoding/json"
)

// TicketNotes associates ticket IDs with the ordered notes collected for them
// during one transcript pass. Key order is discovery order, and a ticket never
// holds the same note text twice. A ticket with no notes is never a key.
//
// The zero value is ready to use.
type TicketNotes struct {
	order []string
	notes map[string][]string
}

// Add appends note to the ticket's sequence. Empty notes and exact duplicates
// of an already-held note are dropped. It reports whether the note was stored.
func (tn *TicketNotes) Add(ticket, note string) bool {
	if ticket == "" || note == "" {
		return false
	}
	for _, existing := range tn.notes[ticket] {
		if existing == note {
			return false
		}
	}
	if tn.notes == nil {
		tn.notes = make(map[string][]string)
	}
	if _, seen := tn.notes[ticket]; !seen {
		tn.order = append(tn.order, ticket)
	}
	tn.notes[ticket] = append(tn.notes[ticket], note)
	return true
}

// Tickets returns the ticket IDs in discovery order.
func (tn *TicketNotes) Tickets() []string {
	out := make([]string, len(tn.order))
	copy(out, tn.order)
	return out
}

// NotesFor returns the notes recorded for a ticket, in insertion order.
func (tn *TicketNotes) NotesFor(ticket string) []string {
	notes := tn.notes[ticket]
	out := make([]string, len(notes))
	copy(out, notes)
	return out
}

// Len returns the number of tickets that hold at least one note.
func (tn *TicketNotes) Len() int {
	return len(tn.order)
}

// MarshalJSON renders the mapping as a JSON object with keys in discovery
// order.
func (tn *TicketNotes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ticket := range tn.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ticket)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(tn.notes[ticket])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CommentPayload is one tracker-ready comment derived from a ticket's notes.
type CommentPayload struct {
	TicketID string
	Body     string
}
