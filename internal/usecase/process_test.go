package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yohamza/meet2jira/internal/domain"
)

type mockDocs struct {
	doc       domain.Document
	urlErr    error
	newestErr error
	gotURL    string
	gotFolder string
}

func (m *mockDocs) DocumentByURL(_ context.Context, rawURL string) (domain.Document, error) {
	m.gotURL = rawURL
	return m.doc, m.urlErr
}

func (m *mockDocs) NewestTranscript(_ context.Context, folderID string) (domain.Document, error) {
	m.gotFolder = folderID
	return m.doc, m.newestErr
}

type mockStore struct {
	saveMeetingErr error
	saveItemsErr   error
	meeting        domain.Meeting
	getMeetingErr  error
	transcript     string
	transcriptErr  error
	listItems      []domain.ActionItem
	listErr        error

	savedMeeting    domain.Meeting
	savedTranscript string
	savedItems      []domain.ActionItem
}

func (m *mockStore) SaveMeeting(_ context.Context, meeting domain.Meeting, transcript string) error {
	m.savedMeeting = meeting
	m.savedTranscript = transcript
	return m.saveMeetingErr
}

func (m *mockStore) GetMeeting(_ context.Context, _ string) (domain.Meeting, error) {
	return m.meeting, m.getMeetingErr
}

func (m *mockStore) GetTranscript(_ context.Context, _ string) (string, error) {
	return m.transcript, m.transcriptErr
}

func (m *mockStore) SaveActionItems(_ context.Context, _ string, items []domain.ActionItem) error {
	m.savedItems = items
	return m.saveItemsErr
}

func (m *mockStore) ListActionItems(_ context.Context, _ string) ([]domain.ActionItem, error) {
	return m.listItems, m.listErr
}

type mockExtractor struct {
	items []domain.ActionItem
	notes *domain.TicketNotes
}

func (m *mockExtractor) ActionItems(_ context.Context, _ string) []domain.ActionItem {
	return m.items
}

func (m *mockExtractor) TicketNotes(_ context.Context, _ string) *domain.TicketNotes {
	if m.notes == nil {
		return &domain.TicketNotes{}
	}
	return m.notes
}

type mockPoster struct {
	results  map[string]error
	gotTitle string
	called   bool
}

func (m *mockPoster) PostNotes(_ context.Context, _ *domain.TicketNotes, title string) map[string]error {
	m.called = true
	m.gotTitle = title
	return m.results
}

func sampleDoc() domain.Document {
	return domain.Document{Name: "Standup 5-1", Content: "PROJ-1 needs review\n- notify QA"}
}

func notesWith(pairs ...string) *domain.TicketNotes {
	var notes domain.TicketNotes
	for i := 0; i+1 < len(pairs); i += 2 {
		notes.Add(pairs[i], pairs[i+1])
	}
	return &notes
}

func newService(t *testing.T, docs DocumentSource, store MeetingStore, ex Extractor, poster CommentPoster) *ProcessService {
	t.Helper()
	svc, err := NewProcessService(docs, store, ex, poster)
	require.NoError(t, err)
	return svc
}

func expectError(t *testing.T, err error, code ErrorCode, reason string) {
	t.Helper()
	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, code, ucErr.Code)
	require.Equal(t, reason, ucErr.Reason)
}

func TestNewProcessService_Validation(t *testing.T) {
	docs := &mockDocs{}
	store := &mockStore{}
	ex := &mockExtractor{}

	_, err := NewProcessService(nil, store, ex, nil)
	require.Error(t, err)
	_, err = NewProcessService(docs, nil, ex, nil)
	require.Error(t, err)
	_, err = NewProcessService(docs, store, nil, nil)
	require.Error(t, err)

	// poster is an optional capability
	_, err = NewProcessService(docs, store, ex, nil)
	require.NoError(t, err)
}

func TestProcess_HappyPath(t *testing.T) {
	docs := &mockDocs{doc: sampleDoc()}
	store := &mockStore{}
	ex := &mockExtractor{
		items: []domain.ActionItem{{Description: "notify QA", Assignee: "Sam"}},
		notes: notesWith("PROJ-1", "PROJ-1 needs review\n- notify QA"),
	}
	poster := &mockPoster{results: map[string]error{"PROJ-1": nil}}
	svc := newService(t, docs, store, ex, poster)

	out, err := svc.Process(context.Background(), ProcessInput{FolderID: "folder-1"})
	require.NoError(t, err)
	require.Equal(t, "Standup 5-1", out.MeetingCode)
	require.False(t, out.AlreadyProcessed)
	require.Equal(t, 1, out.ActionItems)
	require.Equal(t, 1, out.Tickets)
	require.Equal(t, 1, out.CommentsPosted)
	require.Equal(t, "folder-1", docs.gotFolder)

	require.Equal(t, "Standup 5-1", store.savedMeeting.Code)
	require.Equal(t, sampleDoc().Content, store.savedTranscript)
	require.Len(t, store.savedItems, 1)
	require.NotEmpty(t, store.savedItems[0].ID)
	require.Equal(t, "open", store.savedItems[0].Status)
	require.Equal(t, "Standup 5-1", poster.gotTitle)
}

func TestProcess_DocURLTakesPriority(t *testing.T) {
	docs := &mockDocs{doc: sampleDoc()}
	svc := newService(t, docs, &mockStore{}, &mockExtractor{}, nil)

	_, err := svc.Process(context.Background(), ProcessInput{
		DocURL:   "https://docs.google.com/document/d/abc/edit",
		FolderID: "ignored",
	})
	require.NoError(t, err)
	require.Equal(t, "https://docs.google.com/document/d/abc/edit", docs.gotURL)
	require.Empty(t, docs.gotFolder)
}

func TestProcess_FolderDefaultsToRoot(t *testing.T) {
	docs := &mockDocs{doc: sampleDoc()}
	svc := newService(t, docs, &mockStore{}, &mockExtractor{}, nil)

	_, err := svc.Process(context.Background(), ProcessInput{})
	require.NoError(t, err)
	require.Equal(t, "root", docs.gotFolder)
}

func TestProcess_InvalidDocURL(t *testing.T) {
	docs := &mockDocs{urlErr: fmt.Errorf("gdrive: %w", domain.ErrInvalidDocumentURL)}
	svc := newService(t, docs, &mockStore{}, &mockExtractor{}, nil)

	_, err := svc.Process(context.Background(), ProcessInput{DocURL: "bad"})
	expectError(t, err, ErrorInvalidInput, "invalid_doc_url")
}

func TestProcess_NoNewTranscript(t *testing.T) {
	docs := &mockDocs{newestErr: fmt.Errorf("gdrive: %w", domain.ErrNoDocument)}
	svc := newService(t, docs, &mockStore{}, &mockExtractor{}, nil)

	_, err := svc.Process(context.Background(), ProcessInput{FolderID: "folder-1"})
	expectError(t, err, ErrorNotFound, "no_new_transcript")
}

func TestProcess_DriveFailureIsUpstream(t *testing.T) {
	docs := &mockDocs{newestErr: errors.New("503 from drive")}
	svc := newService(t, docs, &mockStore{}, &mockExtractor{}, nil)

	_, err := svc.Process(context.Background(), ProcessInput{})
	expectError(t, err, ErrorUpstream, "document_fetch_error")
}

func TestProcess_AlreadyProcessed(t *testing.T) {
	docs := &mockDocs{doc: sampleDoc()}
	store := &mockStore{saveMeetingErr: fmt.Errorf("repository: %w", domain.ErrMeetingExists)}
	poster := &mockPoster{}
	svc := newService(t, docs, store, &mockExtractor{notes: notesWith("PROJ-1", "x")}, poster)

	out, err := svc.Process(context.Background(), ProcessInput{})
	require.NoError(t, err)
	require.True(t, out.AlreadyProcessed)
	require.Equal(t, "Standup 5-1", out.MeetingCode)
	require.False(t, poster.called, "a reprocessed meeting must not extract or post again")
}

func TestProcess_SaveFailureIsInternal(t *testing.T) {
	docs := &mockDocs{doc: sampleDoc()}
	store := &mockStore{saveMeetingErr: errors.New("dynamo down")}
	svc := newService(t, docs, store, &mockExtractor{}, nil)

	_, err := svc.Process(context.Background(), ProcessInput{})
	expectError(t, err, ErrorInternal, "meeting_save_error")
}

func TestProcess_ActionItemSaveFailureDegrades(t *testing.T) {
	docs := &mockDocs{doc: sampleDoc()}
	store := &mockStore{saveItemsErr: errors.New("dynamo down")}
	ex := &mockExtractor{items: []domain.ActionItem{{Description: "task"}}}
	svc := newService(t, docs, store, ex, nil)

	out, err := svc.Process(context.Background(), ProcessInput{})
	require.NoError(t, err)
	require.Zero(t, out.ActionItems)
}

func TestProcess_PosterFailuresAreNonFatal(t *testing.T) {
	docs := &mockDocs{doc: sampleDoc()}
	ex := &mockExtractor{notes: notesWith("PROJ-1", "a", "PROJ-2", "b")}
	poster := &mockPoster{results: map[string]error{
		"PROJ-1": nil,
		"PROJ-2": errors.New("403 from jira"),
	}}
	svc := newService(t, docs, &mockStore{}, ex, poster)

	out, err := svc.Process(context.Background(), ProcessInput{})
	require.NoError(t, err)
	require.Equal(t, 2, out.Tickets)
	require.Equal(t, 1, out.CommentsPosted)
}

func TestProcess_NilPosterSkipsPosting(t *testing.T) {
	docs := &mockDocs{doc: sampleDoc()}
	ex := &mockExtractor{notes: notesWith("PROJ-1", "a")}
	svc := newService(t, docs, &mockStore{}, ex, nil)

	out, err := svc.Process(context.Background(), ProcessInput{})
	require.NoError(t, err)
	require.Equal(t, 1, out.Tickets)
	require.Zero(t, out.CommentsPosted)
}

func TestProcess_EmptyDocumentIsNotFound(t *testing.T) {
	docs := &mockDocs{doc: domain.Document{Name: "Empty Doc", Content: ""}}
	svc := newService(t, docs, &mockStore{}, &mockExtractor{}, nil)

	_, err := svc.Process(context.Background(), ProcessInput{})
	expectError(t, err, ErrorNotFound, "transcript_unavailable")
}

func TestMeeting_ReturnsPreview(t *testing.T) {
	store := &mockStore{
		meeting:    domain.Meeting{Code: "standup"},
		transcript: strings.Repeat("x", 300),
	}
	svc := newService(t, &mockDocs{}, store, &mockExtractor{}, nil)

	detail, err := svc.Meeting(context.Background(), "standup")
	require.NoError(t, err)
	require.Equal(t, "standup", detail.Meeting.Code)
	require.Len(t, detail.Preview, 203)
	require.True(t, strings.HasSuffix(detail.Preview, "..."))
}

func TestMeeting_NotFound(t *testing.T) {
	store := &mockStore{getMeetingErr: fmt.Errorf("repository: %w", domain.ErrMeetingNotFound)}
	svc := newService(t, &mockDocs{}, store, &mockExtractor{}, nil)

	_, err := svc.Meeting(context.Background(), "missing")
	expectError(t, err, ErrorNotFound, "meeting_not_found")
}

func TestMeeting_EmptyCode(t *testing.T) {
	svc := newService(t, &mockDocs{}, &mockStore{}, &mockExtractor{}, nil)
	_, err := svc.Meeting(context.Background(), "  ")
	expectError(t, err, ErrorInvalidInput, "empty_meeting_code")
}

func TestActionItems_HappyPath(t *testing.T) {
	store := &mockStore{listItems: []domain.ActionItem{{ID: "a1", Description: "task"}}}
	svc := newService(t, &mockDocs{}, store, &mockExtractor{}, nil)

	items, err := svc.ActionItems(context.Background(), "standup")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestActionItems_MeetingMustExist(t *testing.T) {
	store := &mockStore{getMeetingErr: fmt.Errorf("repository: %w", domain.ErrMeetingNotFound)}
	svc := newService(t, &mockDocs{}, store, &mockExtractor{}, nil)

	_, err := svc.ActionItems(context.Background(), "missing")
	expectError(t, err, ErrorNotFound, "meeting_not_found")
}
