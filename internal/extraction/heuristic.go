package extraction

import (
	"context"
	"strings"

	"github.com/yohamza/meet2jira/internal/domain"
)

// HeuristicExtractor derives ticket notes from transcript text using line
// adjacency alone. It needs no network and always produces the same result
// for the same input, which also makes it the reference implementation the
// model-backed extractor is tested against.
type HeuristicExtractor struct{}

// TicketNotes walks the transcript line by line. A line carrying one or more
// ticket IDs opens a note window; subsequent continuation lines are folded in
// until a blank line, a line with its own ticket ID, or a non-continuation
// line ends the window. The joined window becomes one note for every ticket
// named on the window's first line, so a bare "PROJ-1 is blocked" with no
// follow-up still surfaces as a note.
func (HeuristicExtractor) TicketNotes(_ context.Context, transcript string) *domain.TicketNotes {
	notes := &domain.TicketNotes{}
	lines := strings.Split(transcript, "\n")

	for idx, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		tickets := TicketIDs(line)
		if len(tickets) == 0 {
			continue
		}

		collected := []string{line}
		for j := idx + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || containsTicketID(next) || !IsContinuation(next) {
				break
			}
			collected = append(collected, next)
		}

		note := joinNote(collected)
		for _, ticket := range tickets {
			notes.Add(ticket, note)
		}
	}
	return notes
}

// ActionItems is empty on the heuristic path: action items carry no
// recognizable grammar, so without a model the sub-path yields nothing.
func (HeuristicExtractor) ActionItems(context.Context, string) []domain.ActionItem {
	return nil
}

// joinNote trims every collected line, drops empties, and joins the rest with
// newlines into a single note.
func joinNote(lines []string) string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		cleaned = append(cleaned, text)
	}
	return strings.Join(cleaned, "\n")
}
