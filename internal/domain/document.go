package domain

// Document is a transcript document fetched from the document store. Name
// doubles as the meeting code.
type Document struct {
	Name    string
	Content string
}
