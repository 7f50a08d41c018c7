// Package restapi implements the service.Service interface over the remote
// task service's JSON CRUD API.
package restapi

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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/oauth2"

	"tasktrack/internal/config"
	"tasktrack/internal/service"
)

const (
	// CollectionPath is the task collection endpoint.
	CollectionPath = "/api/todos/"

	// APITimeout is the default per-request timeout.
	APITimeout = 5 * time.Second

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 512
)

// Client implements service.Service against the remote task API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	schemas    *validator
	token      string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client (for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithLogger sets the logger used for request records.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithToken sends a bearer token with every request. The token wraps the
// final HTTP client, whatever the option order.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url: %q", baseURL)
	}
	schemas, err := newValidator()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    APITimeout,
		logger:     slog.New(slog.DiscardHandler),
		schemas:    schemas,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.token != "" {
		c.httpClient = withBearer(c.httpClient, c.token)
	}
	c.logger = c.logger.With("component", "restapi")
	return c, nil
}

func withBearer(hc *http.Client, token string) *http.Client {
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &http.Client{
		Transport:     &oauth2.Transport{Source: src, Base: base},
		CheckRedirect: hc.CheckRedirect,
		Jar:           hc.Jar,
		Timeout:       hc.Timeout,
	}
}

// NewFromConfig creates a client from settings.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	return New(cfg.APIURL,
		WithLogger(logger),
		WithTimeout(cfg.Timeout),
		WithToken(cfg.APIToken),
	)
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, CollectionPath, nil, c.schemas.taskList, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, title, description string) (service.Task, error) {
	var task service.Task
	req := createRequest{Title: title, Description: description}
	if err := c.do(ctx, http.MethodPost, CollectionPath, req, c.schemas.task, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, update service.TaskUpdate) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id, ""), update, c.schemas.task, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	return c.do(ctx, http.MethodDelete, taskPath(id, ""), nil, nil, nil)
}

// ToggleTask implements service.Service.
func (c *Client) ToggleTask(ctx context.Context, id service.ID) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id, "toggle_completed"), nil, c.schemas.task, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// taskPath builds /api/todos/{id}/ or /api/todos/{id}/{action}/.
func taskPath(id service.ID, action string) string {
	p := CollectionPath + url.PathEscape(id.String()) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

// do performs one round trip. A nil schema skips body validation and decoding.
func (c *Client) do(ctx context.Context, method, path string, body any, schema *jsonschema.Schema, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed", "error", err, "duration", time.Since(start))
		return wrapError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(ctx, err)
	}
	log.Debug("request done", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data)
	}
	if schema == nil || out == nil {
		return nil
	}
	if err := validate(schema, data); err != nil {
		return fmt.Errorf("%w: %v", service.ErrMalformed, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", service.ErrMalformed, err)
	}
	return nil
}

// wrapError classifies transport errors.
func wrapError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", service.ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
}

// statusError maps a non-2xx status to an error kind.
func statusError(code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", service.ErrUnauthorized, code)
	case http.StatusNotFound:
		return fmt.Errorf("%w: status %d", service.ErrNotFound, code)
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return &service.StatusError{Code: code, Body: text}
}
