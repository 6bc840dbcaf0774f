// Package jira posts meeting-note comments to Jira issues over the REST API
// and builds the per-ticket comment bodies from extracted notes.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yohamza/meet2jira/internal/domain"
)

const tokenName = "jira/api-token"

// TokenSource resolves the Jira API token, typically from SSM via
// secrets.Store.
type TokenSource interface {
	Token(ctx context.Context, name string) (string, error)
}

// HTTPStatusError captures non-2xx Jira responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("jira: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client adds comments to Jira issues using basic auth (email + API token).
// API version 3 sends comment bodies as Atlassian Document Format; version 2
// sends plain text.
type Client struct {
	baseURL    string
	email      string
	apiVersion string
	httpClient *http.Client
	tokens     TokenSource

	tokenOnce sync.Once
	apiToken  string
	tokenErr  error
}

type Option func(*Client)

func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = strings.TrimSpace(version)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client for the given Jira site.
func NewClient(tokens TokenSource, baseURL, email string, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("jira: token source must not be nil")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("jira: base URL must not be empty")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("jira: email must not be empty")
	}
	c := &Client{
		baseURL:    baseURL,
		email:      email,
		apiVersion: "3",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiVersion == "" {
		c.apiVersion = "3"
	}
	return c, nil
}

func (c *Client) resolveToken(ctx context.Context) (string, error) {
	c.tokenOnce.Do(func() {
		c.apiToken, c.tokenErr = c.tokens.Token(ctx, tokenName)
	})
	return c.apiToken, c.tokenErr
}

func (c *Client) commentURL(issueKey string) string {
	return fmt.Sprintf("%s/rest/api/%s/issue/%s/comment", c.baseURL, c.apiVersion, issueKey)
}

// AddComment posts one comment to the given issue.
func (c *Client) AddComment(ctx context.Context, issueKey, commentText string) error {
	issueKey = strings.TrimSpace(issueKey)
	if issueKey == "" {
		return errors.New("jira: issue key must not be empty")
	}

	token, err := c.resolveToken(ctx)
	if err != nil {
		return err
	}

	var payload any
	if c.apiVersion == "2" {
		payload = map[string]string{"body": commentText}
	} else {
		payload = map[string]adfDoc{"body": toADF(commentText)}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("jira: marshal comment: %w", err)
	}

	url := c.commentURL(issueKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("jira: create request: %w", err)
	}
	req.SetBasicAuth(c.email, token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("jira: add comment to %s: %w", issueKey, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}
	return nil
}

// PostNotes builds one combined comment per ticket and posts each one.
// Failures are per-ticket: a failed post is logged and recorded in the result
// map, but never stops the remaining tickets. The returned map holds a nil
// value for every ticket whose comment was posted.
func (c *Client) PostNotes(ctx context.Context, notes *domain.TicketNotes, meetingTitle string) map[string]error {
	results := make(map[string]error, notes.Len())
	for _, comment := range BuildComments(notes, meetingTitle) {
		err := c.AddComment(ctx, comment.TicketID, comment.Body)
		if err != nil {
			slog.Warn("failed to post ticket comment", "ticket", comment.TicketID, "err", err)
		}
		results[comment.TicketID] = err
	}
	return results
}
