// Package logsapi talks to the dashboard backend's log proxy endpoint.
package logsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vburojevic/jittail/internal/domain"
)

const (
	defaultUserAgent      = "jittail/0.1"
	DefaultRequestTimeout = 10 * time.Second
	maxErrorBody          = 512
)

// Client fetches log pages from GET {base}/logs
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// APIError represents a non-2xx response
type APIError struct {
	StatusCode int
	Path       string
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Body)
}

// Option configures Client behavior
type Option func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for the API base address, e.g.
// "https://abc.execute-api.us-east-1.amazonaws.com/prod".
func NewClient(base string, opts ...Option) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: DefaultRequestTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// logsResponse mirrors the proxy's JSON body
type logsResponse struct {
	Group string    `json:"group"`
	Count int       `json:"count"`
	Items []logItem `json:"items"`
	Next  *string   `json:"next"`
}

type logItem struct {
	TS      string `json:"ts"`
	Message string `json:"message"`
	Stream  string `json:"stream"`
}

// FetchLogs retrieves one page for req. Any failure is wrapped in
// domain.ErrFetchFailed; the caller does not interpret HTTP semantics.
func (c *Client) FetchLogs(ctx context.Context, req domain.PageRequest) (domain.Page, error) {
	if c == nil {
		return domain.Page{}, fmt.Errorf("%w: client is nil", domain.ErrFetchFailed)
	}
	values := url.Values{}
	values.Set("group", req.Group.Key())
	values.Set("minutes", strconv.Itoa(req.WindowMinutes))
	values.Set("limit", strconv.Itoa(req.PageSize))
	if req.Pattern != "" {
		values.Set("pattern", req.Pattern)
	}
	if req.Cursor != "" {
		values.Set("next", req.Cursor)
	}

	var payload logsResponse
	if err := c.get(ctx, "logs", values, &payload); err != nil {
		return domain.Page{}, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	page := domain.Page{
		Group: payload.Group,
		Items: make([]domain.RawLogItem, 0, len(payload.Items)),
	}
	if payload.Next != nil {
		page.Cursor = *payload.Next
	}
	for _, it := range payload.Items {
		page.Items = append(page.Items, domain.RawLogItem{
			Timestamp: ParseTimestamp(it.TS),
			Stream:    it.Stream,
			Message:   it.Message,
		})
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: path, RawQuery: query.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Path:       "/" + path,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseBaseURL keeps the base path (API stages live under a path prefix) and
// guarantees a trailing slash so relative references resolve beneath it.
func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("api base is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// ParseTimestamp parses the proxy's ISO-8601 timestamps. Unparseable values
// yield the zero time rather than dropping the line.
func ParseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
