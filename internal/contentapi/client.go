// Package contentapi is a client for the remote content-archival service.
//
// Every response is wrapped in a {code, message, data} envelope. A code of
// 200 means success; any other code is reported as ErrNotFound (or
// ErrSubmitFailed for task creation). Failures reaching the service at all
// are reported as ErrUnavailable so callers can tell "does not exist" from
// "could not ask".
package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Defaults for the HTTP transport.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultHeaderName = "User-Agent"

	// maxBodySize caps response bodies to keep a misbehaving server from
	// exhausting memory.
	maxBodySize = 16 << 20
)

// Client talks to the remote content service.
// Safe for concurrent use.
type Client struct {
	endpoint    string
	headerName  string
	headerValue string
	http        *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request transport timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("contentapi: WithTimeout duration must be positive")
	}
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHeader sets the identifying header sent with every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		if name != "" {
			c.headerName = name
		}
		c.headerValue = value
	}
}

// WithRateLimit throttles outgoing requests to rps requests per second.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the given base endpoint.
// An empty endpoint sends request paths as-is.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:    endpoint,
		headerName:  DefaultHeaderName,
		headerValue: "docshot",
		http:        &http.Client{Timeout: DefaultTimeout},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured base endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// JoinURL joins a base endpoint and a request path.
// One trailing slash is trimmed from base and exactly one slash separates
// the two. An empty base returns path unchanged.
func JoinURL(base, path string) string {
	if base == "" {
		return path
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Document fetches an article or paste by identifier.
func (c *Client) Document(ctx context.Context, kind Kind, id string) (*Document, error) {
	switch kind {
	case KindArticle, KindPaste:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, ErrEmptyID)
	}

	var doc Document
	if err := c.get(ctx, "/"+string(kind)+"/query/"+url.PathEscape(id), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Article fetches an article by identifier.
func (c *Client) Article(ctx context.Context, id string) (*Document, error) {
	return c.Document(ctx, KindArticle, id)
}

// Paste fetches a paste by identifier.
func (c *Client) Paste(ctx context.Context, id string) (*Document, error) {
	return c.Document(ctx, KindPaste, id)
}

// Recent lists recently updated articles.
func (c *Client) Recent(ctx context.Context, q RecentQuery) ([]Document, error) {
	params := url.Values{}
	if q.Count > 0 {
		params.Set("count", strconv.Itoa(q.Count))
	}
	if !q.UpdatedAfter.IsZero() {
		params.Set("updated_after", q.UpdatedAfter.UTC().Format(time.RFC3339))
	}
	if q.TruncatedCount > 0 {
		params.Set("truncated_count", strconv.Itoa(q.TruncatedCount))
	}

	var docs []Document
	if err := c.get(ctx, "/article/recent", params, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Count returns the total number of articles.
func (c *Client) Count(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/article/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// Relevant lists articles related to the given article.
func (c *Client) Relevant(ctx context.Context, id string) ([]Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, ErrEmptyID)
	}
	var docs []Document
	if err := c.get(ctx, "/article/relevant/"+url.PathEscape(id), nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// History lists the revisions of an article, as returned by the service.
func (c *Client) History(ctx context.Context, id string) ([]Revision, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, ErrEmptyID)
	}
	var revs []Revision
	if err := c.get(ctx, "/article/history/"+url.PathEscape(id), nil, &revs); err != nil {
		return nil, err
	}
	return revs, nil
}

// CreateTask submits a background work item and returns its identifier.
// The payload shape is validated remotely, not here.
func (c *Client) CreateTask(ctx context.Context, taskType TaskType, payload any) (string, error) {
	taskType, err := ParseTaskType(string(taskType))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	body, err := json.Marshal(struct {
		Type    TaskType `json:"type"`
		Payload any      `json:"payload"`
	}{Type: taskType, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("%w: encoding payload: %v", ErrSubmitFailed, err)
	}

	var out struct {
		TaskID string `json:"taskId"`
	}
	env, err := c.do(ctx, http.MethodPost, "/task/create", body)
	if err != nil {
		return "", err
	}
	if env.Code != codeOK {
		return "", fmt.Errorf("%w: code %d: %s", ErrSubmitFailed, env.Code, env.Message)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return "", fmt.Errorf("%w: decoding data: %v", ErrUnavailable, err)
		}
	}
	if out.TaskID == "" {
		return "", fmt.Errorf("%w: empty task id in response", ErrSubmitFailed)
	}
	return out.TaskID, nil
}

// Task fetches the current state of a task.
func (c *Client) Task(ctx context.Context, id string) (*Task, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, ErrEmptyID)
	}
	var task Task
	if err := c.get(ctx, "/task/query/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// get performs a GET and decodes a successful envelope's data into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if env.Code != codeOK {
		return fmt.Errorf("%w: code %d: %s", ErrNotFound, env.Code, env.Message)
	}
	return decodeData(env, out)
}

// do sends one request and returns the decoded envelope.
// Every failure before a readable envelope is ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	target := JoinURL(c.endpoint, path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.headerValue != "" {
		req.Header.Set(c.headerName, c.headerValue)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: HTTP %d: undecodable envelope: %v", ErrUnavailable, resp.StatusCode, err)
	}

	c.logger.Debug("content service request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"code", env.Code,
		"duration", time.Since(start).Round(time.Millisecond))

	return &env, nil
}

// decodeData unmarshals the envelope payload into out.
func decodeData(env *envelope, out any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: empty data in response", ErrNotFound)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decoding data: %v", ErrUnavailable, err)
	}
	return nil
}
