// Package client talks to the panel's status API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prabalesh/paneltop/internal/models"
)

const DefaultTimeout = 10 * time.Second

// API paths served by the status server.
const (
	PathStatus       = "/api/status"
	PathAppsStorage  = "/api/apps-storage"
	PathLogs         = "/api/logs"
	PathRestart      = "/api/restart"
	PathClearCache   = "/api/clear-cache"
	PathStatusStream = "/api/ws"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken attaches a bearer token to action requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Status(ctx context.Context) (models.StatusSnapshot, error) {
	var snap models.StatusSnapshot
	err := c.do(ctx, http.MethodGet, PathStatus, &snap)
	return snap, err
}

func (c *Client) AppsStorage(ctx context.Context) (models.AppsStorage, error) {
	var apps models.AppsStorage
	err := c.do(ctx, http.MethodGet, PathAppsStorage, &apps)
	return apps, err
}

func (c *Client) Logs(ctx context.Context) (models.LogBlob, error) {
	var blob models.LogBlob
	err := c.do(ctx, http.MethodGet, PathLogs, &blob)
	return blob, err
}

func (c *Client) Restart(ctx context.Context) (models.ActionResult, error) {
	var res models.ActionResult
	err := c.do(ctx, http.MethodPost, PathRestart, &res)
	return res, err
}

func (c *Client) ClearCache(ctx context.Context) (models.ActionResult, error) {
	var res models.ActionResult
	err := c.do(ctx, http.MethodPost, PathClearCache, &res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%s %s: failed to read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(body)}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls the "error" field out of a JSON error body, falling back
// to the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
