// Package handler adapts API Gateway proxy events to the transcript
// processing service.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/yohamza/meet2jira/internal/domain"
	"github.com/yohamza/meet2jira/internal/usecase"
)

// TranscriptService is the application surface the handler exposes.
type TranscriptService interface {
	Process(ctx context.Context, in usecase.ProcessInput) (usecase.ProcessOutput, error)
	Meeting(ctx context.Context, code string) (usecase.MeetingDetail, error)
	ActionItems(ctx context.Context, code string) ([]domain.ActionItem, error)
}

type Handler struct {
	svc TranscriptService
}

func NewHandler(svc TranscriptService) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("handler: transcript service must not be nil")
	}
	return &Handler{svc: svc}, nil
}

type processRequest struct {
	DocURL   string `json:"docUrl"`
	FolderID string `json:"folderId"`
}

type processResponse struct {
	Message        string `json:"message"`
	MeetingCode    string `json:"meetingCode"`
	Preview        string `json:"preview,omitempty"`
	ActionItems    int    `json:"actionItems"`
	Tickets        int    `json:"tickets"`
	CommentsPosted int    `json:"commentsPosted"`
}

type meetingResponse struct {
	MeetingCode string `json:"meetingCode"`
	ProcessedAt string `json:"processedAt"`
	Preview     string `json:"transcriptPreview,omitempty"`
}

type actionItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Assignee    string `json:"assignee,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type actionItemsResponse struct {
	MeetingCode string               `json:"meetingCode"`
	ActionItems []actionItemResponse `json:"actionItems"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Handle routes one API Gateway proxy event.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := strings.Trim(req.Path, "/")
	var segments []string
	if path != "" {
		segments = strings.Split(path, "/")
	}

	switch {
	case len(segments) == 0 && req.HTTPMethod == http.MethodGet:
		return jsonResponse(http.StatusOK, map[string]string{"status": "meet2jira is running"}), nil

	case matchRoute(segments, req.HTTPMethod, http.MethodPost, "api", "meetings", "process"):
		return h.handleProcess(ctx, req), nil

	case len(segments) == 3 && matchRoute(segments[:2], req.HTTPMethod, http.MethodGet, "api", "meetings"):
		return h.handleGetMeeting(ctx, segments[2]), nil

	case len(segments) == 4 && segments[3] == "action-items" &&
		matchRoute(segments[:2], req.HTTPMethod, http.MethodGet, "api", "meetings"):
		return h.handleActionItems(ctx, segments[2]), nil
	}

	return jsonResponse(http.StatusNotFound, errorResponse{Error: string(usecase.ErrorNotFound), Reason: "route_not_found"}), nil
}

func matchRoute(segments []string, method, wantMethod string, want ...string) bool {
	if method != wantMethod || len(segments) != len(want) {
		return false
	}
	for i, segment := range want {
		if segments[i] != segment {
			return false
		}
	}
	return true
}

func (h *Handler) handleProcess(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var body processRequest
	if strings.TrimSpace(req.Body) != "" {
		if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
			return jsonResponse(http.StatusBadRequest, errorResponse{
				Error:  string(usecase.ErrorInvalidInput),
				Reason: "malformed_body",
			})
		}
	}

	out, err := h.svc.Process(ctx, usecase.ProcessInput{DocURL: body.DocURL, FolderID: body.FolderID})
	if err != nil {
		return errorToResponse(err)
	}

	if out.AlreadyProcessed {
		return jsonResponse(http.StatusOK, processResponse{
			Message:     "This transcript has already been processed.",
			MeetingCode: out.MeetingCode,
		})
	}
	return jsonResponse(http.StatusCreated, processResponse{
		Message:        "Transcript processed successfully",
		MeetingCode:    out.MeetingCode,
		Preview:        out.Preview,
		ActionItems:    out.ActionItems,
		Tickets:        out.Tickets,
		CommentsPosted: out.CommentsPosted,
	})
}

func (h *Handler) handleGetMeeting(ctx context.Context, code string) events.APIGatewayProxyResponse {
	detail, err := h.svc.Meeting(ctx, code)
	if err != nil {
		return errorToResponse(err)
	}
	return jsonResponse(http.StatusOK, meetingResponse{
		MeetingCode: detail.Meeting.Code,
		ProcessedAt: detail.Meeting.ProcessedAt.UTC().Format(time.RFC3339),
		Preview:     detail.Preview,
	})
}

func (h *Handler) handleActionItems(ctx context.Context, code string) events.APIGatewayProxyResponse {
	items, err := h.svc.ActionItems(ctx, code)
	if err != nil {
		return errorToResponse(err)
	}
	out := actionItemsResponse{MeetingCode: code, ActionItems: make([]actionItemResponse, 0, len(items))}
	for _, item := range items {
		out.ActionItems = append(out.ActionItems, actionItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Assignee:    item.Assignee,
			Status:      item.Status,
			CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return jsonResponse(http.StatusOK, out)
}

func errorToResponse(err error) events.APIGatewayProxyResponse {
	var ucErr *usecase.Error
	if !errors.As(err, &ucErr) {
		return jsonResponse(http.StatusInternalServerError, errorResponse{
			Error: string(usecase.ErrorInternal),
		})
	}

	status := http.StatusInternalServerError
	switch ucErr.Code {
	case usecase.ErrorInvalidInput:
		status = http.StatusBadRequest
	case usecase.ErrorNotFound:
		status = http.StatusNotFound
	case usecase.ErrorUpstream:
		status = http.StatusBadGateway
	}
	return jsonResponse(status, errorResponse{Error: string(ucErr.Code), Reason: ucErr.Reason})
}

func jsonResponse(status int, body any) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		payload = []byte(`{"error":"INTERNAL_ERROR"}`)
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":     "application/json",
			"X-Correlation-Id": uuid.NewString(),
		},
		Body: string(payload),
	}
}
