package jira

import "strings"

// Atlassian Document Format, the comment body shape required by the v3 REST
// API. One paragraph per non-blank line of text.

type adfDoc struct {
	Type    string         `json:"type"`
	Version int            `json:"version"`
	Content []adfParagraph `json:"content"`
}

type adfParagraph struct {
	Type    string    `json:"type"`
	Content []adfText `json:"content"`
}

type adfText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func toADF(text string) adfDoc {
	var paragraphs []adfParagraph
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		paragraphs = append(paragraphs, adfParagraph{
			Type:    "paragraph",
			Content: []adfText{{Type: "text", Text: line}},
		})
	}
	if len(paragraphs) == 0 {
		paragraphs = []adfParagraph{{
			Type:    "paragraph",
			Content: []adfText{{Type: "text", Text: ""}},
		}}
	}
	return adfDoc{Type: "doc", Version: 1, Content: paragraphs}
}
