package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yohamza/meet2jira/internal/domain"
)

const (
	transcriptPreviewLen = 200
	statusOpen           = "open"
)

// DocumentSource fetches transcript documents, either directly by URL or by
// polling a folder for the newest one.
type DocumentSource interface {
	DocumentByURL(ctx context.Context, rawURL string) (domain.Document, error)
	NewestTranscript(ctx context.Context, folderID string) (domain.Document, error)
}

// MeetingStore persists captured meetings and their derived artifacts.
type MeetingStore interface {
	SaveMeeting(ctx context.Context, meeting domain.Meeting, transcript string) error
	GetMeeting(ctx context.Context, code string) (domain.Meeting, error)
	GetTranscript(ctx context.Context, code string) (string, error)
	SaveActionItems(ctx context.Context, code string, items []domain.ActionItem) error
	ListActionItems(ctx context.Context, code string) ([]domain.ActionItem, error)
}

// Extractor derives action items and ticket notes from transcript text.
// Both sub-paths are best-effort: implementations degrade to empty results
// rather than returning errors, so a failed extraction never aborts capture.
type Extractor interface {
	ActionItems(ctx context.Context, transcript string) []domain.ActionItem
	TicketNotes(ctx context.Context, transcript string) *domain.TicketNotes
}

// CommentPoster posts one combined comment per ticket to the tracker and
// reports per-ticket outcomes (nil = posted).
type CommentPoster interface {
	PostNotes(ctx context.Context, notes *domain.TicketNotes, meetingTitle string) map[string]error
}

// ProcessService captures meeting transcripts and fans out to the extraction
// and posting sub-paths. The poster is optional: a nil poster means Jira is
// not configured and posting is skipped.
type ProcessService struct {
	docs      DocumentSource
	store     MeetingStore
	extractor Extractor
	poster    CommentPoster
}

type ProcessInput struct {
	DocURL   string
	FolderID string
}

type ProcessOutput struct {
	MeetingCode      string
	AlreadyProcessed bool
	Preview          string
	ActionItems      int
	Tickets          int
	CommentsPosted   int
}

// MeetingDetail is a meeting plus its transcript preview.
type MeetingDetail struct {
	Meeting domain.Meeting
	Preview string
}

func NewProcessService(docs DocumentSource, store MeetingStore, extractor Extractor, poster CommentPoster) (*ProcessService, error) {
	if docs == nil {
		return nil, errors.New("usecase: document source must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: meeting store must not be nil")
	}
	if extractor == nil {
		return nil, errors.New("usecase: extractor must not be nil")
	}
	return &ProcessService{
		docs:      docs,
		store:     store,
		extractor: extractor,
		poster:    poster,
	}, nil
}

// Process fetches a transcript, captures it once per meeting code, and runs
// the extraction sub-paths. Only the capture itself can fail the operation;
// extraction, persistence of action items, and Jira posting degrade to
// partial results with a warning.
func (s *ProcessService) Process(ctx context.Context, in ProcessInput) (ProcessOutput, error) {
	doc, err := s.resolveDocument(ctx, in)
	if err != nil {
		return ProcessOutput{}, err
	}
	if strings.TrimSpace(doc.Name) == "" || doc.Content == "" {
		return ProcessOutput{}, newError(ErrorNotFound, "transcript_unavailable", nil)
	}

	meeting := domain.Meeting{Code: doc.Name, ProcessedAt: time.Now().UTC()}
	if err := s.store.SaveMeeting(ctx, meeting, doc.Content); err != nil {
		if errors.Is(err, domain.ErrMeetingExists) {
			slog.Info("transcript already processed", "meeting_code", doc.Name)
			return ProcessOutput{MeetingCode: doc.Name, AlreadyProcessed: true}, nil
		}
		return ProcessOutput{}, newError(ErrorInternal, "meeting_save_error", err)
	}
	slog.Info("captured transcript", "meeting_code", doc.Name, "bytes", len(doc.Content))

	out := ProcessOutput{
		MeetingCode: doc.Name,
		Preview:     preview(doc.Content, 100),
	}

	items := s.extractor.ActionItems(ctx, doc.Content)
	if len(items) > 0 {
		now := time.Now().UTC()
		for i := range items {
			items[i].ID = newID()
			items[i].Status = statusOpen
			items[i].CreatedAt = now
		}
		if err := s.store.SaveActionItems(ctx, doc.Name, items); err != nil {
			slog.Warn("failed to save action items", "meeting_code", doc.Name, "err", err)
		} else {
			out.ActionItems = len(items)
		}
	}

	notes := s.extractor.TicketNotes(ctx, doc.Content)
	out.Tickets = notes.Len()
	if notes.Len() > 0 {
		if s.poster == nil {
			slog.Info("jira not configured, skipping comment posting", "tickets", notes.Len())
		} else {
			for ticket, postErr := range s.poster.PostNotes(ctx, notes, doc.Name) {
				if postErr == nil {
					out.CommentsPosted++
				} else {
					slog.Warn("ticket comment not posted", "ticket", ticket, "err", postErr)
				}
			}
		}
	}

	return out, nil
}

func (s *ProcessService) resolveDocument(ctx context.Context, in ProcessInput) (domain.Document, error) {
	if url := strings.TrimSpace(in.DocURL); url != "" {
		doc, err := s.docs.DocumentByURL(ctx, url)
		switch {
		case errors.Is(err, domain.ErrInvalidDocumentURL):
			return domain.Document{}, newError(ErrorInvalidInput, "invalid_doc_url", err)
		case errors.Is(err, domain.ErrNoDocument):
			return domain.Document{}, newError(ErrorNotFound, "document_not_found", err)
		case err != nil:
			return domain.Document{}, newError(ErrorUpstream, "document_fetch_error", err)
		}
		return doc, nil
	}

	folderID := strings.TrimSpace(in.FolderID)
	if folderID == "" {
		folderID = "root"
	}
	doc, err := s.docs.NewestTranscript(ctx, folderID)
	switch {
	case errors.Is(err, domain.ErrNoDocument):
		return domain.Document{}, newError(ErrorNotFound, "no_new_transcript", err)
	case err != nil:
		return domain.Document{}, newError(ErrorUpstream, "document_fetch_error", err)
	}
	return doc, nil
}

// Meeting returns a captured meeting and a transcript preview.
func (s *ProcessService) Meeting(ctx context.Context, code string) (MeetingDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return MeetingDetail{}, newError(ErrorInvalidInput, "empty_meeting_code", nil)
	}

	meeting, err := s.store.GetMeeting(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			return MeetingDetail{}, newError(ErrorNotFound, "meeting_not_found", err)
		}
		return MeetingDetail{}, newError(ErrorInternal, "meeting_read_error", err)
	}

	transcript, err := s.store.GetTranscript(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrMeetingNotFound) {
		return MeetingDetail{}, newError(ErrorInternal, "transcript_read_error", err)
	}

	return MeetingDetail{
		Meeting: meeting,
		Preview: preview(transcript, transcriptPreviewLen),
	}, nil
}

// ActionItems returns the persisted action items for a meeting.
func (s *ProcessService) ActionItems(ctx context.Context, code string) ([]domain.ActionItem, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, newError(ErrorInvalidInput, "empty_meeting_code", nil)
	}

	if _, err := s.store.GetMeeting(ctx, code); err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			return nil, newError(ErrorNotFound, "meeting_not_found", err)
		}
		return nil, newError(ErrorInternal, "meeting_read_error", err)
	}

	items, err := s.store.ListActionItems(ctx, code)
	if err != nil {
		return nil, newError(ErrorInternal, "action_items_read_error", err)
	}
	return items, nil
}

func preview(text string, limit int) string {
	if text == "" {
		return ""
	}
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

var newID = func() string {
	return uuid.NewString()
}
