// Package googletasks implements the service.Service interface on one
// Google Tasks list.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasktrack/internal/config"
	"tasktrack/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// TasksScope is the OAuth scope for Google Tasks.
	TasksScope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using the Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a client from the stored OAuth client and token.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Refreshes automatically when the access token expires.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return newClient(svc, cfg.GoogleList, cfg.Timeout, logger), nil
}

// NewWithHTTPClient creates a client against endpoint with a custom HTTP
// client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listID string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return newClient(svc, listID, APITimeout, nil), nil
}

func newClient(svc *tasks.Service, listID string, timeout time.Duration, logger *slog.Logger) *Client {
	if listID == "" {
		listID = DefaultListID
	}
	if timeout <= 0 {
		timeout = APITimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		svc:     svc,
		listID:  listID,
		timeout: timeout,
		logger:  logger.With("component", "googletasks", "list", listID),
	}
}

// ListTasks returns every task of the list, completed and hidden ones
// included, in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, toTask(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(ctx, err)
	}
	c.logger.Debug("listed tasks", "count", len(result))
	return result, nil
}

// CreateTask inserts a task at the top of the list.
func (c *Client) CreateTask(ctx context.Context, title, description string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title: title,
		Notes: description,
	}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(ctx, err)
	}
	return toTask(created), nil
}

// UpdateTask patches the title and notes that are present in update.
func (c *Client) UpdateTask(ctx context.Context, id service.ID, update service.TaskUpdate) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	patch := &tasks.Task{}
	if update.Title != nil {
		patch.Title = *update.Title
	}
	if update.Description != nil {
		patch.Notes = *update.Description
		// An empty string is otherwise dropped and the notes would stay.
		patch.ForceSendFields = append(patch.ForceSendFields, "Notes")
	}
	updated, err := c.svc.Tasks.Patch(c.listID, id.String(), patch).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(ctx, err)
	}
	return toTask(updated), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id.String()).Context(ctx).Do(); err != nil {
		return wrapError(ctx, err)
	}
	return nil
}

// ToggleTask reads the current status and patches the opposite one.
func (c *Client) ToggleTask(ctx context.Context, id service.ID) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	current, err := c.svc.Tasks.Get(c.listID, id.String()).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(ctx, err)
	}

	patch := &tasks.Task{Status: statusCompleted}
	if current.Status == statusCompleted {
		patch.Status = statusNeedsAction
		patch.NullFields = []string{"Completed"}
	}
	updated, err := c.svc.Tasks.Patch(c.listID, id.String(), patch).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(ctx, err)
	}
	return toTask(updated), nil
}

// toTask converts an API task. Google exposes no creation time, so
// CreatedAt mirrors the last update.
func toTask(t *tasks.Task) service.Task {
	updated, _ := time.Parse(time.RFC3339, t.Updated)
	return service.Task{
		ID:          service.ID(t.Id),
		Title:       t.Title,
		Description: t.Notes,
		Completed:   t.Status == statusCompleted,
		CreatedAt:   updated,
		UpdatedAt:   updated,
	}
}

// wrapError maps API errors onto the service error kinds.
func wrapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", service.ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: token expired or revoked (run: tasktrack login)", service.ErrUnauthorized)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", service.ErrNotFound, err)
		}
		return &service.StatusError{Code: apiErr.Code, Body: apiErr.Message}
	}

	var oauthErr *oauth2.RetrieveError
	if errors.As(err, &oauthErr) {
		return fmt.Errorf("%w: token expired or revoked (run: tasktrack login)", service.ErrUnauthorized)
	}
	return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
}
