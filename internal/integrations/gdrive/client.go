// Package gdrive fetches meeting transcript documents from Google Drive over
// the Drive v3 REST API, exporting Google Docs as plain text.
package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/yohamza/meet2jira/internal/domain"
)

const (
	tokenName   = "google/drive-token"
	docMimeType = "application/vnd.google-apps.document"
)

// docURLPattern extracts the file ID from a Google Doc URL
// (…/document/d/<id>/…).
var docURLPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9-_]+)`)

// ExtractDocID parses a Google Doc URL into a file ID. It returns an empty
// string when the URL has no recognizable document path.
func ExtractDocID(rawURL string) string {
	m := docURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// TokenSource resolves the Drive access token, typically from SSM via
// secrets.Store.
type TokenSource interface {
	Token(ctx context.Context, name string) (string, error)
}

// Client reads transcript documents from Drive.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	tokenOnce   sync.Once
	accessToken string
	tokenErr    error
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Drive client backed by the given token source.
func NewClient(tokens TokenSource, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("gdrive: token source must not be nil")
	}
	c := &Client{
		baseURL:    "https://www.googleapis.com/drive/v3",
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) resolveToken(ctx context.Context) (string, error) {
	c.tokenOnce.Do(func() {
		c.accessToken, c.tokenErr = c.tokens.Token(ctx, tokenName)
	})
	return c.accessToken, c.tokenErr
}

// DocumentByURL fetches the document a Google Doc URL points at.
func (c *Client) DocumentByURL(ctx context.Context, rawURL string) (domain.Document, error) {
	docID := ExtractDocID(rawURL)
	if docID == "" {
		return domain.Document{}, fmt.Errorf("gdrive: %q: %w", rawURL, domain.ErrInvalidDocumentURL)
	}
	return c.Document(ctx, docID)
}

// fileMeta is the subset of Drive file metadata this client reads.
type fileMeta struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type fileList struct {
	Files []fileMeta `json:"files"`
}

// Document fetches a specific Google Doc by ID: its name first, then its
// content exported as plain text.
func (c *Client) Document(ctx context.Context, docID string) (domain.Document, error) {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return domain.Document{}, errors.New("gdrive: document ID must not be empty")
	}

	metaURL := fmt.Sprintf("%s/files/%s?fields=name&supportsAllDrives=true", c.baseURL, url.PathEscape(docID))
	raw, err := c.get(ctx, metaURL)
	if err != nil {
		return domain.Document{}, fmt.Errorf("gdrive: file metadata: %w", err)
	}
	var meta fileMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return domain.Document{}, fmt.Errorf("gdrive: decode file metadata: %w", err)
	}

	content, err := c.export(ctx, docID)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{Name: meta.Name, Content: content}, nil
}

// NewestTranscript finds the newest Google Doc and exports it. With the
// default folder "root" it searches all of Drive (shared drives included) for
// docs named like Gemini meeting notes; with a specific folder ID it searches
// only that folder.
func (c *Client) NewestTranscript(ctx context.Context, folderID string) (domain.Document, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		folderID = "root"
	}

	baseQuery := fmt.Sprintf("mimeType='%s' and trashed=false", docMimeType)
	var query string
	if folderID == "root" {
		query = "name contains 'Notes By Gemini' and " + baseQuery
	} else {
		query = fmt.Sprintf("'%s' in parents and %s", folderID, baseQuery)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("orderBy", "createdTime desc")
	params.Set("pageSize", "1")
	params.Set("fields", "files(id, name)")
	params.Set("supportsAllDrives", "true")
	params.Set("includeItemsFromAllDrives", "true")

	raw, err := c.get(ctx, c.baseURL+"/files?"+params.Encode())
	if err != nil {
		return domain.Document{}, fmt.Errorf("gdrive: list files: %w", err)
	}
	var list fileList
	if err := json.Unmarshal(raw, &list); err != nil {
		return domain.Document{}, fmt.Errorf("gdrive: decode file list: %w", err)
	}
	if len(list.Files) == 0 {
		return domain.Document{}, fmt.Errorf("gdrive: folder %q: %w", folderID, domain.ErrNoDocument)
	}

	doc := list.Files[0]
	content, err := c.export(ctx, doc.ID)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{Name: doc.Name, Content: content}, nil
}

func (c *Client) export(ctx context.Context, docID string) (string, error) {
	exportURL := fmt.Sprintf("%s/files/%s/export?mimeType=%s", c.baseURL, url.PathEscape(docID), url.QueryEscape("text/plain"))
	raw, err := c.get(ctx, exportURL)
	if err != nil {
		return "", fmt.Errorf("gdrive: export document: %w", err)
	}
	return string(raw), nil
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	token, err := c.resolveToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d from %s: %s", res.StatusCode, requestURL, string(buf))
	}
	return io.ReadAll(io.LimitReader(res.Body, 16<<20))
}
