package notehub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public NoteHub API.
	DefaultBaseURL = "https://notehub-public.goit.study/api/"
	// DefaultPerPage is the page size used when ListParams.PerPage is zero.
	DefaultPerPage = 10

	maxBodyBytes = 4 << 20
)

// Config is the process-wide client configuration, built once at startup.
type Config struct {
	BaseURL string
	Token   string
	PerPage int
	Timeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Config.Timeout is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client talks to the NoteHub REST API. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	token   string
	perPage int
	http    *http.Client
	logger  *slog.Logger
}

// New builds a client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	c := &Client{
		base:    base,
		token:   cfg.Token,
		perPage: cfg.PerPage,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  slog.Default(),
	}
	if c.perPage <= 0 {
		c.perPage = DefaultPerPage
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListParams selects a page of notes. Zero Page means 1; zero PerPage means
// the client default. Empty Tag and SortBy are left out of the request.
type ListParams struct {
	Search  string
	Page    int
	PerPage int
	Tag     Tag
	SortBy  SortBy
}

// List fetches one page of notes matching p.
func (c *Client) List(ctx context.Context, p ListParams) (Page, error) {
	const op = "list notes"

	page := max(1, p.Page)
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = c.perPage
	}

	q := url.Values{}
	q.Set("search", p.Search)
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(perPage))
	if p.Tag != "" {
		q.Set("tag", string(p.Tag))
	}
	if p.SortBy != "" {
		q.Set("sortBy", string(p.SortBy))
	}

	var out Page
	if err := c.do(ctx, op, http.MethodGet, "notes", q, nil, &out); err != nil {
		return Page{}, err
	}
	if out.TotalPages < 1 {
		out.TotalPages = 1
	}
	return out, nil
}

// Create validates p and stores a new note. Invalid input returns a
// *ValidationError without contacting the service.
func (c *Client) Create(ctx context.Context, p CreateParams) (Note, error) {
	const op = "create note"

	if fields := p.Validate(); fields != nil {
		return Note{}, &ValidationError{Fields: fields}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return Note{}, fmt.Errorf("%s: encode body: %w", op, err)
	}

	var out Note
	if err := c.do(ctx, op, http.MethodPost, "notes", nil, body, &out); err != nil {
		return Note{}, err
	}
	return out, nil
}

// Delete removes the note with the given id and returns its last state.
// A missing note yields an error matching ErrNotFound.
func (c *Client) Delete(ctx context.Context, id string) (Note, error) {
	const op = "delete note"

	if id == "" {
		return Note{}, &ValidationError{Fields: map[string]string{"id": "Note id is required"}}
	}

	var out Note
	if err := c.do(ctx, op, http.MethodDelete, "notes/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return Note{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body []byte, out any) error {
	// path arrives already escaped; parsing keeps RawPath so the
	// escapes are sent once.
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	u := c.base.ResolveReference(ref)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("notehub: request failed", "op", op, "url", u.Redacted(), "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	c.logger.Debug("notehub: request done",
		"op", op, "method", method, "url", u.Redacted(),
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{Op: op, Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServiceError{Op: op, Status: resp.StatusCode, Message: "decode response: " + err.Error()}
	}
	return nil
}

// errorMessage extracts a human message from an error body, falling back to
// the status text.
func errorMessage(status int, data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(status)
}

// ErrUnauthorized reports whether err is a 401 from the service, which
// usually means the token is missing or wrong.
func ErrUnauthorized(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Status == http.StatusUnauthorized
}
