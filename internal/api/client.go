package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hopx-ai/hopx-go/internal/apierrors"
)

// Default transport settings.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

// Config configures a transport client.
type Config struct {
	// BaseURL is the root URL all request paths are appended to. Required.
	BaseURL string

	// APIKey authenticates against the control plane. Exactly one of
	// APIKey and AccessToken must be set.
	APIKey string

	// AccessToken authenticates against a sandbox agent.
	AccessToken string

	// RefreshToken, when set with AccessToken, is invoked on a 401 to
	// obtain a fresh token. At most one refresh happens per request.
	RefreshToken RefreshFunc

	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client

	// Timeout is the per-request timeout. Defaults to DefaultTimeout.
	Timeout time.Duration

	// MaxRetries bounds the number of attempts per logical request.
	// Defaults to DefaultMaxRetries. The 401 refresh retry is exempt.
	MaxRetries int

	// Retry overrides the backoff policy. Defaults to DefaultRetryConfig.
	Retry *RetryConfig

	// Logger receives debug-level retry and refresh decisions.
	Logger *slog.Logger

	// UserAgent overrides the User-Agent header.
	UserAgent string
}

// Client is the HTTP transport shared by every SDK call.
type Client struct {
	baseURL    string
	cred       *credentialCell
	httpClient *http.Client
	maxRetries int
	retry      *RetryConfig
	logger     *slog.Logger
	userAgent  string
}

// NewClient creates a transport client from the given config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		return nil, fmt.Errorf("either an API key or an access token is required")
	}
	if cfg.APIKey != "" && cfg.AccessToken != "" {
		return nil, fmt.Errorf("API key and access token are mutually exclusive")
	}

	cred := Credential{Type: CredentialAPIKey, Value: cfg.APIKey}
	if cfg.AccessToken != "" {
		cred = Credential{Type: CredentialBearer, Value: cfg.AccessToken}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	retry := cfg.Retry
	if retry == nil {
		retry = DefaultRetryConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "hopx-go/" + Version
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		cred:       newCredentialCell(cred, cfg.RefreshToken),
		httpClient: httpClient,
		maxRetries: maxRetries,
		retry:      retry,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// AccessToken returns the current bearer token, or "" for API-key clients.
// WebSocket dials reuse it since they bypass Do.
func (c *Client) AccessToken() string {
	cred := c.cred.get()
	if cred.Type != CredentialBearer {
		return ""
	}
	return cred.Value
}

// Verb helpers. Every call funnels through Do.

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, result)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, body, result)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do performs one logical request: marshal the body, then run the retry
// loop until an attempt succeeds, the budget is spent, or the failure is
// terminal. On success the response is decoded into result (which may be
// nil for empty responses). On failure exactly one typed error is returned.
func (c *Client) Do(ctx context.Context, method, path string, body, result interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	url := c.baseURL + path
	refreshed := false

	for attempt := 1; ; attempt++ {
		resp, err := c.attempt(ctx, method, url, payload)
		if err != nil {
			// Network-level failure: no response to classify.
			if attempt < c.maxRetries {
				c.logger.Debug("request failed, retrying",
					"method", method, "url", url, "attempt", attempt, "error", err)
				if werr := c.retry.Wait(ctx, attempt); werr != nil {
					return &apierrors.NetworkError{Err: werr, URL: url, Attempt: attempt}
				}
				continue
			}
			return &apierrors.NetworkError{Err: err, URL: url, Attempt: attempt}
		}

		if resp.StatusCode < 400 {
			return decodeResponse(resp, result)
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if c.retry.RetryableOn(resp.StatusCode) && attempt < c.maxRetries {
			c.logger.Debug("retryable status, backing off",
				"method", method, "url", url, "status", resp.StatusCode, "attempt", attempt)
			if werr := c.retry.Wait(ctx, attempt); werr != nil {
				return &apierrors.NetworkError{Err: werr, URL: url, Attempt: attempt}
			}
			continue
		}

		// A 401 gets one refresh-and-retry cycle per logical request,
		// outside the retry budget. A second 401 falls through to
		// translation, as does a callback that yields nothing.
		if resp.StatusCode == http.StatusUnauthorized && !refreshed && c.cred.canRefresh() {
			refreshed = true
			ok, rerr := c.cred.doRefresh(ctx)
			if rerr != nil {
				c.logger.Debug("credential refresh failed", "url", url, "error", rerr)
			}
			if ok {
				c.logger.Debug("credential refreshed, retrying", "method", method, "url", url)
				continue
			}
		}

		return Translate(resp.StatusCode, respBody, resp.Header)
	}
}

// attempt executes a single physical request. The credential is re-read
// from the cell on every attempt so a refresh becomes visible immediately.
func (c *Client) attempt(ctx context.Context, method, url string, payload []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.setHeaders(req, "application/json")

	return c.httpClient.Do(req)
}

// DoRaw performs a single request with a caller-supplied body reader and
// returns the raw response. Streaming bodies cannot be replayed, so DoRaw
// never retries; error responses are still translated. The caller owns the
// response body.
func (c *Client) DoRaw(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.setHeaders(req, contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apierrors.NetworkError{Err: err, URL: c.baseURL + path, Attempt: 1}
	}

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, Translate(resp.StatusCode, respBody, resp.Header)
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request, contentType string) {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	cred := c.cred.get()
	switch cred.Type {
	case CredentialAPIKey:
		req.Header.Set("X-API-Key", cred.Value)
	case CredentialBearer:
		req.Header.Set("Authorization", "Bearer "+cred.Value)
	}
}

func decodeResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
