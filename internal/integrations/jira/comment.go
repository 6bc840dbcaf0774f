package jira

import (
	"strings"

	"github.com/yohamza/meet2jira/internal/domain"
)

// BuildComments derives one comment payload per ticket from the extracted
// notes. When a meeting title is given it becomes the first line. A ticket
// with a single note gets it inline; multiple notes are listed as bullets
// under a "Notes:" header, in the order they were discovered. Payload order
// follows the mapping's ticket order.
func BuildComments(notes *domain.TicketNotes, meetingTitle string) []domain.CommentPayload {
	comments := make([]domain.CommentPayload, 0, notes.Len())
	for _, ticket := range notes.Tickets() {
		ticketNotes := notes.NotesFor(ticket)
		if len(ticketNotes) == 0 {
			continue
		}

		var lines []string
		if meetingTitle != "" {
			lines = append(lines, "Meeting notes from: "+meetingTitle)
		}
		if len(ticketNotes) == 1 {
			lines = append(lines, ticketNotes[0])
		} else {
			lines = append(lines, "Notes:")
			for _, note := range ticketNotes {
				lines = append(lines, "- "+note)
			}
		}

		comments = append(comments, domain.CommentPayload{
			TicketID: ticket,
			Body:     strings.Join(lines, "\n"),
		})
	}
	return comments
}
