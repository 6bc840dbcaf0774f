package domain

import "errors"

var (
	// ErrMeetingExists is returned when a transcript with the same meeting
	// code has already been captured.
	ErrMeetingExists = errors.New("meeting already exists")

	// ErrMeetingNotFound is returned when a meeting code is unknown.
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrNoDocument is returned when a document source has nothing to fetch.
	ErrNoDocument = errors.New("no document found")

	// ErrInvalidDocumentURL is returned when a document URL cannot be parsed
	// into a document ID.
	ErrInvalidDocumentURL = errors.New("invalid document URL")
)
