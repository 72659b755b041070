package hopx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hopx-ai/hopx-go/internal/api"
)

// agentPort is the port the in-sandbox agent listens on. The public
// hostname for it is "{port}-{sandboxID}.{domain}".
const agentPort = 49983

// killConcurrency bounds parallel kill requests in KillAllSandboxes.
const killConcurrency = 8

// ErrMissingAPIKey is returned by New when no API key is supplied and
// HOPX_API_KEY is unset.
var ErrMissingAPIKey = errors.New("api key is required: pass one to New or set HOPX_API_KEY")

// Client talks to the Hopx control plane. It is safe for concurrent use.
type Client struct {
	api    *api.Client
	config clientConfig
}

// New creates a client. An empty apiKey falls back to the HOPX_API_KEY
// environment variable; the base URL falls back to HOPX_BASE_URL, then
// to the production endpoint. Environment is read once, here.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := clientConfig{
		timeout: defaultTimeout,
		retries: api.DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if apiKey == "" {
		apiKey = os.Getenv(envAPIKey)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if cfg.baseURL == "" {
		cfg.baseURL = os.Getenv(envBaseURL)
	}
	if cfg.baseURL == "" {
		cfg.baseURL = defaultBaseURL
	}
	if cfg.agentURL == "" {
		cfg.agentURL = os.Getenv(envAgentURL)
	}

	apiClient, err := api.NewClient(api.Config{
		BaseURL:    cfg.baseURL,
		APIKey:     apiKey,
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		MaxRetries: cfg.retries,
		Retry:      cfg.retryConfig(),
		Logger:     cfg.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Client{api: apiClient, config: cfg}, nil
}

// retryConfig maps the client options onto a transport retry policy,
// or returns nil to take the transport defaults.
func (c *clientConfig) retryConfig() *api.RetryConfig {
	if c.retryBase == 0 && c.retryMax == 0 && c.retryOn == nil {
		return nil
	}
	rc := api.DefaultRetryConfig()
	if c.retryBase > 0 {
		rc.BaseDelay = c.retryBase
	}
	if c.retryMax > 0 {
		rc.MaxDelay = c.retryMax
	}
	if c.retryOn != nil {
		rc.RetryableOn = c.retryOn
	}
	return rc
}

// CreateSandbox starts a new sandbox from the given template and waits
// for the control plane to schedule it.
func (c *Client) CreateSandbox(ctx context.Context, templateID string, opts ...SandboxOption) (*Sandbox, error) {
	if templateID == "" {
		return nil, fmt.Errorf("template ID is required")
	}

	var cfg sandboxConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	req := &api.CreateSandboxRequest{
		TemplateID:     templateID,
		TimeoutSeconds: int(cfg.timeout / time.Second),
		Metadata:       cfg.metadata,
		EnvVars:        cfg.envVars,
		InternetAccess: cfg.internetAccess,
	}
	resp, err := c.api.CreateSandbox(ctx, req)
	if err != nil {
		return nil, err
	}

	return c.newSandbox(resp.SandboxInfo, resp.AccessToken)
}

// ConnectSandbox attaches to an existing sandbox, resuming it if it is
// paused, and obtains a fresh agent token.
func (c *Client) ConnectSandbox(ctx context.Context, sandboxID string, opts ...SandboxOption) (*Sandbox, error) {
	if sandboxID == "" {
		return nil, fmt.Errorf("sandbox ID is required")
	}

	var cfg sandboxConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	req := &api.ConnectSandboxRequest{TimeoutSeconds: int(cfg.timeout / time.Second)}
	resp, err := c.api.ConnectSandbox(ctx, sandboxID, req)
	if err != nil {
		return nil, err
	}

	return c.newSandbox(resp.SandboxInfo, resp.AccessToken)
}

// ListSandboxes returns all sandboxes matching the given filters,
// following pagination to the end.
func (c *Client) ListSandboxes(ctx context.Context, opts ...ListOption) ([]SandboxInfo, error) {
	var cfg listConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	params := &api.ListSandboxesParams{
		State:    cfg.state,
		Metadata: cfg.metadata,
		Limit:    cfg.limit,
	}

	var all []SandboxInfo
	for {
		page, err := c.api.ListSandboxes(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Sandboxes...)
		if page.NextToken == "" {
			return all, nil
		}
		params.NextToken = page.NextToken
	}
}

// GetSandbox returns the current control plane view of one sandbox.
func (c *Client) GetSandbox(ctx context.Context, sandboxID string) (*SandboxInfo, error) {
	return c.api.GetSandbox(ctx, sandboxID)
}

// KillSandbox terminates a sandbox by ID.
func (c *Client) KillSandbox(ctx context.Context, sandboxID string) error {
	return c.api.KillSandbox(ctx, sandboxID)
}

// KillAllSandboxes terminates every sandbox matching the filters and
// returns how many were killed. Kills run in parallel; the first
// failure cancels the rest.
func (c *Client) KillAllSandboxes(ctx context.Context, opts ...ListOption) (int, error) {
	sandboxes, err := c.ListSandboxes(ctx, opts...)
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(killConcurrency)
	for _, sb := range sandboxes {
		id := sb.SandboxID
		g.Go(func() error {
			return c.api.KillSandbox(ctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(sandboxes), nil
}

// Templates returns the template management surface.
func (c *Client) Templates() *Templates {
	return &Templates{api: c.api}
}

// newSandbox builds the per-sandbox handle. Its agent client speaks to
// the agent inside the sandbox with a bearer token, and refreshes that
// token by reconnecting through the control plane when it expires.
func (c *Client) newSandbox(info api.SandboxInfo, accessToken string) (*Sandbox, error) {
	agentURL := c.config.agentURL
	if agentURL == "" {
		agentURL = fmt.Sprintf("https://%d-%s.%s", agentPort, info.SandboxID, info.Domain)
	}

	sandboxID := info.SandboxID
	refresh := func(ctx context.Context) (string, error) {
		resp, err := c.api.ConnectSandbox(ctx, sandboxID, &api.ConnectSandboxRequest{})
		if err != nil {
			return "", err
		}
		return resp.AccessToken, nil
	}

	agent, err := api.NewClient(api.Config{
		BaseURL:      agentURL,
		AccessToken:  accessToken,
		RefreshToken: refresh,
		HTTPClient:   c.config.httpClient,
		Timeout:      c.config.timeout,
		MaxRetries:   c.config.retries,
		Retry:        c.config.retryConfig(),
		Logger:       c.config.logger,
	})
	if err != nil {
		return nil, err
	}

	return &Sandbox{info: info, client: c, agent: agent}, nil
}
