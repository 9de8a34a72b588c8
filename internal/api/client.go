// Package api is the HTTP client for the task-management REST API.
//
// The client is built from an explicit Config; there is no ambient global
// base URL. All calls take a context and map HTTP failures onto the shared
// error taxonomy (ValidationError, NetworkError, NotFoundError).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskdash/internal/model"
)

type Config struct {
	// BaseURL is the API origin, e.g. "http://localhost:8000".
	// The "/api" prefix is added per request.
	BaseURL string

	// HTTPClient is optional; a default with a request timeout is used when nil.
	HTTPClient *http.Client
}

type Client struct {
	base string
	http *http.Client
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ValidationError{Field: "api url", Reason: "empty (set --api-url or TASKDASH_API_URL)"}
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: base, http: hc}, nil
}

// TaskQuery scopes a task listing. UserID 0 means all users; association is
// filtered server-side via the user_id query param, never client-side.
type TaskQuery struct {
	UserID int
	Filter model.Filter
}

func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/users/", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, draft model.UserDraft) (model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/users/", nil, draft, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (c *Client) User(ctx context.Context, userID int) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodGet, "/users/"+strconv.Itoa(userID), nil, nil, &u)
	if err != nil {
		return model.User{}, notFoundAs(err, "user", userID)
	}
	return u, nil
}

func (c *Client) Tasks(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	path := "/tasks/"
	if pr, ok := q.Filter.Priority(); ok {
		path = "/tasks/priority/" + string(pr)
	}
	var params url.Values
	if q.UserID != 0 {
		params = url.Values{"user_id": {strconv.Itoa(q.UserID)}}
	}
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, path, params, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, userID int, draft model.TaskDraft) (model.Task, error) {
	var t model.Task
	err := c.do(ctx, http.MethodPost, "/users/"+strconv.Itoa(userID)+"/tasks/", nil, draft, &t)
	if err != nil {
		return model.Task{}, notFoundAs(err, "user", userID)
	}
	return t, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID int, patch model.TaskPatch) (model.Task, error) {
	if patch.IsZero() {
		return model.Task{}, ValidationError{Field: "patch", Reason: "no fields to update"}
	}
	var t model.Task
	err := c.do(ctx, http.MethodPatch, "/tasks/"+strconv.Itoa(taskID), nil, patch, &t)
	if err != nil {
		return model.Task{}, notFoundAs(err, "task", taskID)
	}
	return t, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID int) error {
	err := c.do(ctx, http.MethodDelete, "/tasks/"+strconv.Itoa(taskID), nil, nil, nil)
	return notFoundAs(err, "task", taskID)
}

func (c *Client) CompletedStats(ctx context.Context, userID int) (model.CompletedStats, error) {
	var params url.Values
	if userID != 0 {
		params = url.Values{"user_id": {strconv.Itoa(userID)}}
	}
	var st model.CompletedStats
	if err := c.do(ctx, http.MethodGet, "/stats/completed", params, nil, &st); err != nil {
		return model.CompletedStats{}, err
	}
	return st, nil
}

func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var h model.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return model.Health{}, err
	}
	return h, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	u := c.base + "/api" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp, method, path)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorFromResponse(resp *http.Response, method, path string) error {
	detail := readDetail(resp.Body)
	switch resp.StatusCode {
	case http.StatusNotFound:
		// Callers that know the entity re-tag this via notFoundAs.
		return NotFoundError{}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if detail == "" {
			detail = resp.Status
		}
		return ValidationError{Reason: detail}
	default:
		if detail == "" {
			detail = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, detail)
	}
}

// readDetail extracts FastAPI-style {"detail": "..."} error bodies.
// Validation errors may carry a structured detail; fall back to raw text.
func readDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil || len(b) == 0 {
		return ""
	}
	var wrapper struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(b, &wrapper); err == nil && wrapper.Detail != nil {
		if s, ok := wrapper.Detail.(string); ok {
			return s
		}
		if d, err := json.Marshal(wrapper.Detail); err == nil {
			return string(d)
		}
	}
	return strings.TrimSpace(string(b))
}

// notFoundAs tags a bare 404 with the entity the caller was addressing.
func notFoundAs(err error, kind string, id int) error {
	var nf NotFoundError
	if errors.As(err, &nf) && nf.Kind == "" {
		return NotFoundError{Kind: kind, ID: id}
	}
	return err
}
