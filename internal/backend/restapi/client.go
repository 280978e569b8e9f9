// Package restapi implements the service interfaces over the tracker's REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"taskboard/internal/localstore"
	"taskboard/internal/logging"
	"taskboard/internal/notify"
	"taskboard/internal/service"
)

const (
	// LoginPath is the only endpoint whose 401 does not end the session.
	LoginPath = "/auth/login"

	// DefaultTimeout is used when Options.Timeout is zero.
	DefaultTimeout = 15 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 1 << 20
)

// Recorder receives request metrics.
type Recorder interface {
	ObserveRequest(method, route string, status int, d time.Duration)
	SessionEnded()
}

// SessionEnded is raised when an unauthorized response ends the session.
type SessionEnded struct {
	// Path is the request path that was rejected.
	Path string
}

// Request describes one API call.
type Request struct {
	Method string

	// Path is appended to the base URL as is, trailing slash included.
	Path string

	// Route is the path template used as a metrics label, e.g. "/projects/{id}".
	// Defaults to Path.
	Route string

	Query url.Values

	// Body is sent as JSON. Ignored when Form is set.
	Body any

	// Form is sent form-encoded.
	Form url.Values

	// Header overrides default headers. An Authorization header here
	// suppresses token injection.
	Header http.Header
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api".
	BaseURL string

	// HTTPClient overrides the default client (for testing).
	HTTPClient *http.Client

	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration

	// Store persists the token. Defaults to an in-memory store.
	Store localstore.Store

	Logger  *zap.Logger
	Metrics Recorder
}

// Client is the single HTTP transport shared by all resource clients.
// It owns the session token.
type Client struct {
	baseURL  string
	http     *http.Client
	store    localstore.Store
	logger   *zap.Logger
	metrics  Recorder
	sessions *notify.Hub[SessionEnded]

	mu    sync.RWMutex
	token string
}

// New creates a transport and restores a persisted token, if any.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base URL required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	store := opts.Store
	if store == nil {
		store = localstore.NewMemoryStore()
	}
	logger := logging.Component(opts.Logger, "transport")

	c := &Client{
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		http:     httpClient,
		store:    store,
		logger:   logger,
		metrics:  opts.Metrics,
		sessions: notify.NewHub[SessionEnded](logger),
	}

	token, err := store.Get(ctx, localstore.KeyToken)
	switch {
	case err == nil:
		c.token = token
	case errors.Is(err, localstore.ErrNotFound):
	default:
		return nil, fmt.Errorf("loading token: %w", err)
	}
	return c, nil
}

// Token returns the active session token, or "" when there is none.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken activates token for all subsequent requests and persists it.
// An empty token deactivates injection and removes the persisted value.
// Requests already dispatched keep the header they were sent with.
func (c *Client) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if token == "" {
		if err := c.store.Delete(ctx, localstore.KeyToken); err != nil {
			return fmt.Errorf("removing token: %w", err)
		}
		return nil
	}
	if err := c.store.Set(ctx, localstore.KeyToken, token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// SessionEvents returns the hub that announces forced session ends.
func (c *Client) SessionEvents() *notify.Hub[SessionEnded] {
	return c.sessions
}

// Send performs req and decodes a successful JSON response into out.
// out may be nil. Non-2xx responses are returned as *service.APIError;
// transport failures are wrapped. Nothing is retried.
func (c *Client) Send(ctx context.Context, req Request, out any) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(req, 0, time.Since(start))
		c.logger.Debug("api request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	c.observe(req, resp.StatusCode, elapsed)
	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", elapsed))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && !isLoginPath(req.Path) {
			apiErr.SessionEnded = true
			c.endSession(ctx, req.Path)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	// The token is read once here; a concurrent SetToken affects only
	// later requests.
	if token := c.Token(); token != "" && httpReq.Header.Get("Authorization") == "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}
	return httpReq, nil
}

// endSession clears the token and cached user, then announces the end.
func (c *Client) endSession(ctx context.Context, path string) {
	ctx = context.WithoutCancel(ctx)

	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	if err := c.store.Delete(ctx, localstore.KeyToken); err != nil {
		c.logger.Warn("failed to remove persisted token", zap.Error(err))
	}
	if err := c.store.Delete(ctx, localstore.KeyUser); err != nil {
		c.logger.Warn("failed to remove persisted user", zap.Error(err))
	}
	if c.metrics != nil {
		c.metrics.SessionEnded()
	}

	c.logger.Info("session ended by server", zap.String("path", path))
	c.sessions.Publish(SessionEnded{Path: path})
}

func (c *Client) observe(req Request, status int, d time.Duration) {
	if c.metrics == nil {
		return
	}
	route := req.Route
	if route == "" {
		route = req.Path
	}
	c.metrics.ObserveRequest(req.Method, route, status, d)
}

func isLoginPath(path string) bool {
	return strings.TrimSuffix(path, "/") == LoginPath
}

// decodeError builds an APIError from a non-2xx response, extracting the
// body's "detail" field. FastAPI validation errors carry a list of
// {"msg": ...} objects; their messages are joined.
func decodeError(resp *http.Response) *service.APIError {
	apiErr := &service.APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(data, &body) != nil || len(body.Detail) == 0 {
		return apiErr
	}

	var s string
	if json.Unmarshal(body.Detail, &s) == nil {
		apiErr.Detail = s
		return apiErr
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(body.Detail, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
	}
	return apiErr
}
