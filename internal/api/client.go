package api

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

	"go.uber.org/zap"

	"github.com/idilsaglam/taskdeck/internal/model"
)

// DefaultBaseURL matches the sampled deployment; override through config.
const DefaultBaseURL = "http://localhost:8080/api/v1"

// Client talks to the todo REST API. Methods are side-effect free beyond
// the network call itself; callers own all state updates.
type Client struct {
	baseURL    string
	hc         *http.Client
	maxRetries int
	retryBase  time.Duration
	log        *zap.SugaredLogger
}

// NoRetries disables the retry wrapper entirely; every call gets a single
// attempt. Options.MaxRetries zero means "use the default", so the two
// cases stay distinguishable.
const NoRetries = -1

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	MaxRetries int // 0 = DefaultMaxRetries, NoRetries = single attempt
	RetryBase  time.Duration
	Timeout    time.Duration
	Logger     *zap.SugaredLogger
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = DefaultRetryBase
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:    opts.BaseURL,
		hc:         &http.Client{Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		retryBase:  opts.RetryBase,
		log:        opts.Logger,
	}
}

// headers builds the request header set: JSON content type always, bearer
// authorization when a token is present. Token presence is not enforced
// here; callers redirect to sign-in before calling protected operations.
func headers(token string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// do runs one authenticated call and returns the status and raw body.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("json marshal: %w", err)
		}
		payload = b
	}

	build := func() (*http.Request, error) {
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header = headers(token)
		return req, nil
	}

	resp, err := c.doWithRetry(ctx, build)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	c.log.Debugw("api call", "method", method, "path", path, "status", resp.StatusCode)
	return resp.StatusCode, b, nil
}

// doJSON is do plus error-body parsing and success-body decoding.
func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	status, b, err := c.do(ctx, method, path, token, in)
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest {
		return parseAPIError(status, b)
	}
	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			return fmt.Errorf("json unmarshal: %w", err)
		}
	}
	return nil
}

// ---------------------------------------------------
// Todo resource
// ---------------------------------------------------

func (c *Client) ListTodos(ctx context.Context, token string) ([]model.Task, error) {
	var out []model.Task
	if err := c.doJSON(ctx, http.MethodGet, "/todos/", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TodayTodos lists tasks created today.
func (c *Client) TodayTodos(ctx context.Context, token string) ([]model.Task, error) {
	var out []model.Task
	if err := c.doJSON(ctx, http.MethodGet, "/todos/today", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTodo(ctx context.Context, token, id string) (model.Task, error) {
	var out model.Task
	if err := c.doJSON(ctx, http.MethodGet, "/todos/"+url.PathEscape(id), token, nil, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) CreateTodo(ctx context.Context, token string, in model.TaskCreate) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}
	var out model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/todos/", token, in, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) UpdateTodo(ctx context.Context, token, id string, in model.TaskUpdate) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}
	var out model.Task
	if err := c.doJSON(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), token, in, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

// DeleteTodo removes a task. The server returns 204 with no body; a 404 is
// treated as already gone, so deletes are idempotent from the client side.
func (c *Client) DeleteTodo(ctx context.Context, token, id string) (bool, error) {
	status, b, err := c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), token, nil)
	if err != nil {
		return false, err
	}
	switch {
	case status == http.StatusNoContent || status == http.StatusOK:
		return true, nil
	case status == http.StatusNotFound:
		return true, nil
	default:
		return false, parseAPIError(status, b)
	}
}

// ---------------------------------------------------
// Dashboard resource
// ---------------------------------------------------

func (c *Client) DashboardStats(ctx context.Context, token string) (model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard/stats/", token, nil, &out); err != nil {
		return model.DashboardStats{}, err
	}
	return out, nil
}

func (c *Client) RecentTasks(ctx context.Context, token string, limit int) ([]model.TaskSummary, error) {
	path := "/dashboard/recent-tasks/"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []model.TaskSummary
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Analytics(ctx context.Context, token string) (model.ChartData, error) {
	var out model.ChartData
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard/analytics/", token, nil, &out); err != nil {
		return model.ChartData{}, err
	}
	return out, nil
}

// TasksByCategory groups the full task list by category. The server has no
// grouped endpoint, so the grouping happens here.
func (c *Client) TasksByCategory(ctx context.Context, token string) (map[string][]model.TaskSummary, error) {
	tasks, err := c.ListTodos(ctx, token)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]model.TaskSummary)
	for _, t := range tasks {
		cat := t.Category
		if cat == "" {
			cat = model.DefaultCategory
		}
		out[cat] = append(out[cat], t.Summary())
	}
	return out, nil
}
