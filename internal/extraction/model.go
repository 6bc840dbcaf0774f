package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yohamza/meet2jira/internal/domain"
)

// ChatClient is the chat-completion capability the model extractor depends
// on. The response is expected to be a single JSON document.
type ChatClient interface {
	Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)
}

// ModelExtractor asks a chat model for structured extractions. The model is
// untrusted: its replies pass through Sanitize (ticket notes) or shape checks
// (action items) before anything downstream sees them, and any call or parse
// failure degrades to an empty result instead of failing the pipeline.
type ModelExtractor struct {
	llm            ChatClient
	model          string
	defaultProject string
}

// NewModelExtractor builds an extractor for the given model name and default
// project code. The default project is what bare ticket numbers ("fix 991")
// are attributed to.
func NewModelExtractor(llm ChatClient, model, defaultProject string) (*ModelExtractor, error) {
	if llm == nil {
		return nil, errors.New("extraction: chat client must not be nil")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("extraction: model name must not be empty")
	}
	defaultProject = strings.ToUpper(strings.TrimSpace(defaultProject))
	if defaultProject == "" {
		return nil, errors.New("extraction: default project must not be empty")
	}
	return &ModelExtractor{llm: llm, model: model, defaultProject: defaultProject}, nil
}

// TicketNotes extracts a ticket-to-notes mapping from the transcript. The
// reply is sanitized key by key; a failed call or malformed payload yields an
// empty mapping.
func (e *ModelExtractor) TicketNotes(ctx context.Context, transcript string) *domain.TicketNotes {
	raw, err := e.llm.Chat(ctx, e.model, []domain.ChatMessage{
		{Role: "system", Content: ticketNotesPrompt(e.defaultProject)},
		{Role: "user", Content: transcript},
	})
	if err != nil {
		slog.Warn("ticket note extraction call failed", "err", err)
		return &domain.TicketNotes{}
	}

	entries, err := decodeCandidates(raw)
	if err != nil {
		slog.Warn("ticket note extraction returned malformed payload", "err", err)
		return &domain.TicketNotes{}
	}
	return Sanitize(entries)
}

// actionItemsPayload is the expected reply shape for action-item extraction.
type actionItemsPayload struct {
	ActionItems []struct {
		Description string  `json:"description"`
		Assignee    *string `json:"assignee"`
	} `json:"action_items"`
}

// ActionItems extracts the transcript's action items. Entries without a
// description are dropped; a failed call or malformed payload yields nil.
func (e *ModelExtractor) ActionItems(ctx context.Context, transcript string) []domain.ActionItem {
	raw, err := e.llm.Chat(ctx, e.model, []domain.ChatMessage{
		{Role: "system", Content: actionItemsPrompt()},
		{Role: "user", Content: transcript},
	})
	if err != nil {
		slog.Warn("action item extraction call failed", "err", err)
		return nil
	}

	items, err := parseActionItems(raw)
	if err != nil {
		slog.Warn("action item extraction returned malformed payload", "err", err)
		return nil
	}
	return items
}

func parseActionItems(raw string) ([]domain.ActionItem, error) {
	var payload actionItemsPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, fmt.Errorf("extraction: decode action items: %w", err)
	}

	items := make([]domain.ActionItem, 0, len(payload.ActionItems))
	for _, entry := range payload.ActionItems {
		description := strings.TrimSpace(entry.Description)
		if description == "" {
			continue
		}
		item := domain.ActionItem{Description: description}
		if entry.Assignee != nil {
			item.Assignee = strings.TrimSpace(*entry.Assignee)
		}
		items = append(items, item)
	}
	return items, nil
}
