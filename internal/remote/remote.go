// ABOUTME: HTTP persistence adapter for the remote /courses collection.
// ABOUTME: Plain CRUD over JSON; any non-2xx response is reported as StatusError.

package remote

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

	"github.com/rs/zerolog"

	"github.com/harper/coursetrack/internal/adapter"
	"github.com/harper/coursetrack/internal/models"
)

const (
	DefaultBaseURL  = "https://6943a43b69b12460f31568b3.mockapi.io"
	DefaultEndpoint = "courses"
	DefaultTimeout  = 10 * time.Second
)

// StatusError is returned when the service answers with a non-success status.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
}

type Client struct {
	baseURL  string
	endpoint string
	http     *http.Client
	logger   zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = strings.Trim(endpoint, "/")
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ adapter.PersistenceAdapter = (*Client)(nil)

func (c *Client) Name() string { return "remote" }

func (c *Client) collectionURL() string {
	return c.baseURL + "/" + c.endpoint
}

func (c *Client) itemURL(id string) string {
	return c.collectionURL() + "/" + url.PathEscape(id)
}

func (c *Client) Load(ctx context.Context) ([]models.Course, error) {
	var records []record
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &records); err != nil {
		return nil, err
	}
	courses := make([]models.Course, 0, len(records))
	for _, r := range records {
		courses = append(courses, r.toModel())
	}
	return courses, nil
}

// Save replaces the remote collection: existing records are deleted and the
// given courses are created anew. Server-assigned ids replace local ones.
func (c *Client) Save(ctx context.Context, courses []models.Course) error {
	existing, err := c.Load(ctx)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if err := c.Remove(ctx, e.ID); err != nil {
			return err
		}
	}
	for _, course := range courses {
		if _, err := c.Add(ctx, course); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) Add(ctx context.Context, course models.Course) (models.Course, error) {
	body := fromModel(course)
	body.ID = ""
	var created record
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), body, &created); err != nil {
		return models.Course{}, err
	}
	return created.toModel(), nil
}

func (c *Client) Update(ctx context.Context, course models.Course) (models.Course, error) {
	var updated record
	if err := c.do(ctx, http.MethodPut, c.itemURL(course.ID), fromModel(course), &updated); err != nil {
		return models.Course{}, err
	}
	return updated.toModel(), nil
}

func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("remote request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, URL: target, Code: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
