// Package todoapi implements service.TaskRepository against a
// JSONPlaceholder-style /todos REST service.
package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"todoctl/internal/config"
	"todoctl/internal/service"
)

const (
	// DefaultUserAgent is sent when the config does not set one.
	DefaultUserAgent = "todoctl"

	// RequestIDHeader carries a per-request id used to correlate debug logs.
	RequestIDHeader = "X-Request-Id"

	todosPath = "/todos"
)

// Client implements service.TaskRepository over HTTP.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	log       zerolog.Logger
}

var _ service.TaskRepository = (*Client)(nil)

// New creates a client for cfg.BaseURL. The service needs no credentials.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	httpClient, _, err := htransport.NewClient(ctx,
		option.WithoutAuthentication(),
		option.WithEndpoint(cfg.BaseURL),
		option.WithUserAgent(userAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return newClient(httpClient, cfg.BaseURL, userAgent, cfg.Log)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, baseURL string) (*Client, error) {
	hc, _, err := htransport.NewClient(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	return newClient(hc, baseURL, DefaultUserAgent, zerolog.Nop())
}

func newClient(hc *http.Client, baseURL, userAgent string, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}
	return &Client{
		http:      hc,
		baseURL:   u.String(),
		userAgent: userAgent,
		log:       log,
	}, nil
}

// List returns up to limit tasks in server order.
func (c *Client) List(ctx context.Context, limit int) ([]service.Task, error) {
	q := url.Values{}
	q.Set("_limit", strconv.Itoa(limit))

	var tasks []service.Task
	if err := c.do(ctx, "list", http.MethodGet, todosPath+"?"+q.Encode(), nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	// The service may ignore _limit.
	if limit > 0 && len(tasks) > limit {
		c.log.Debug().Int("received", len(tasks)).Int("limit", limit).Msg("truncating list response")
		tasks = tasks[:limit]
	}
	return tasks, nil
}

// Get returns a single task. Unknown ids are reported through the status
// code only; whatever the service sends for a 2xx is decoded as-is.
func (c *Client) Get(ctx context.Context, id int) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, "get", http.MethodGet, taskPath(id), nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// Create posts {title, completed:false, userId:1}.
func (c *Client) Create(ctx context.Context, input service.TaskFormInput) (service.Task, error) {
	body := service.Task{
		Title:     input.Title,
		Completed: false,
		UserID:    service.DefaultUserID,
	}
	var created service.Task
	if err := c.do(ctx, "create", http.MethodPost, todosPath, createBody(body), &created); err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// Update sends patch applied over last as a full replacement.
func (c *Client) Update(ctx context.Context, id int, last service.Task, patch service.TaskPatch) (service.Task, error) {
	body := patch.Apply(last)
	body.ID = id

	var updated service.Task
	if err := c.do(ctx, "update", http.MethodPut, taskPath(id), body, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// Remove deletes a task. The response body is ignored.
func (c *Client) Remove(ctx context.Context, id int) error {
	return c.do(ctx, "remove", http.MethodDelete, taskPath(id), nil, nil)
}

// do sends one request and decodes the response into out (if non-nil).
// Every failure is returned as *service.NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &service.NetworkError{Op: op, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &service.NetworkError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("op", op).Str("request_id", reqID).Err(err).Msg("request failed")
		return &service.NetworkError{Op: op, Err: err}
	}
	defer googleapi.CloseBody(res)

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Str("request_id", reqID).
		Dur("took", time.Since(start)).
		Msg("request done")

	if err := googleapi.CheckResponse(res); err != nil {
		return &service.NetworkError{Op: op, StatusCode: res.StatusCode, Err: err}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &service.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func taskPath(id int) string {
	return todosPath + "/" + strconv.Itoa(id)
}

// createBody omits id so the server assigns one.
func createBody(t service.Task) map[string]any {
	return map[string]any{
		"title":     t.Title,
		"completed": t.Completed,
		"userId":    t.UserID,
	}
}
