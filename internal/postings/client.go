// Package postings talks to the job postings backend: listing, searching and
// creating postings over its REST API, and loading the feed listing with a
// fixed fallback when the backend is unreachable.
package postings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/jobboard/internal/types"
	"go.uber.org/zap"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for backend requests.
const DefaultUserAgent = "jobboard/1.0"

// maxErrorBody caps how much of an error response body is kept.
const maxErrorBody = 4096

// Options configures the client.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

// DefaultOptions returns sensible defaults for the client.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client is an HTTP client for the postings backend. Every call takes a
// context; cancelling it aborts the in-flight request.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts *Options, logger *zap.Logger) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{Op: "configure", URL: baseURL, Message: "invalid base URL", Cause: err}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches every posting from the backend.
func (c *Client) List(ctx context.Context) ([]types.JobPosting, error) {
	var posts []types.JobPosting
	if err := c.do(ctx, "list", http.MethodGet, "/allPosts", nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []types.JobPosting{}
	}
	return posts, nil
}

// Search fetches the postings the backend matches against text.
func (c *Client) Search(ctx context.Context, text string) ([]types.JobPosting, error) {
	var posts []types.JobPosting
	path := "/posts/" + url.PathEscape(text)
	if err := c.do(ctx, "search", http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []types.JobPosting{}
	}
	return posts, nil
}

// Create submits a new posting and returns the record the backend stored.
func (c *Client) Create(ctx context.Context, post *types.JobPosting) (*types.JobPosting, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal posting: %w", err)
	}

	var created types.JobPosting
	if err := c.do(ctx, "create", http.MethodPost, "/post", body, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, &Error{Op: "create", URL: c.baseURL + "/post", Message: "response has no id"}
	}

	c.logger.Info("posting created",
		zap.String("id", created.ID),
		zap.String("company", created.Company),
		zap.String("profile", created.Title))
	return &created, nil
}

// Status describes the outcome of a backend status check.
type Status struct {
	Connected  bool          `json:"connected"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency"`
	Message    string        `json:"message"`
}

// Ping checks whether the backend answers its listing route.
// Connection failures are reported in Status, not as an error.
func (c *Client) Ping(ctx context.Context) Status {
	start := time.Now()
	req, err := c.newRequest(ctx, http.MethodGet, "/allPosts", nil)
	if err != nil {
		return Status{Message: fmt.Sprintf("Connection failed: %v", err)}
	}

	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Status{Latency: latency, Message: fmt.Sprintf("Connection failed: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Status{
			StatusCode: resp.StatusCode,
			Latency:    latency,
			Message:    fmt.Sprintf("Backend responded with status: %d", resp.StatusCode),
		}
	}
	return Status{
		Connected:  true,
		StatusCode: resp.StatusCode,
		Latency:    latency,
		Message:    "Backend is running and responding correctly!",
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes a request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	target := c.baseURL + path

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return &Error{Op: op, URL: target, Message: "failed to create request", Cause: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("op", op),
			zap.String("url", target),
			zap.Error(err))
		return &Error{Op: op, URL: target, Message: "HTTP request failed", Cause: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	c.logger.Debug("backend response",
		zap.String("op", op),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, URL: target, Message: "failed to decode response", Cause: err}
	}
	return nil
}
