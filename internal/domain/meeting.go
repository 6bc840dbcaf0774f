package domain

import "time"

// Meeting is one captured meeting, keyed by the source document name.
type Meeting struct {
	Code        string
	ProcessedAt time.Time
}

// Transcript is the raw meeting transcript text for a meeting.
type Transcript struct {
	MeetingCode string
	Content     string
}

// ActionItem is a single extracted task. Assignee is empty when nobody was
// explicitly assigned.
type ActionItem struct {
	ID          string
	Description string
	Assignee    string
	Status      string
	CreatedAt   time.Time
}
