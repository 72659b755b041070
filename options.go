package hopx

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.hopx.ai"
	defaultTimeout = 30 * time.Second

	// Environment variables consulted once at construction when the
	// corresponding option is absent.
	envAPIKey   = "HOPX_API_KEY"
	envBaseURL  = "HOPX_BASE_URL"
	envAgentURL = "HOPX_AGENT_URL"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	agentURL   string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	retryBase  time.Duration
	retryMax   time.Duration
	retryOn    func(statusCode int) bool
	logger     *slog.Logger
}

// sandboxConfig holds configuration for sandbox creation.
type sandboxConfig struct {
	timeout        time.Duration
	metadata       map[string]string
	envVars        map[string]string
	internetAccess *bool
}

// listConfig holds configuration for sandbox listing.
type listConfig struct {
	state    SandboxState
	metadata map[string]string
	limit    int
}

// commandConfig holds configuration for command execution.
type commandConfig struct {
	cwd      string
	user     string
	envVars  map[string]string
	timeout  time.Duration
	onStdout func(data []byte)
	onStderr func(data []byte)
}

// ptyConfig holds configuration for PTY sessions.
type ptyConfig struct {
	cols int
	rows int
}

// watchConfig holds configuration for directory watching.
type watchConfig struct {
	recursive bool
}

// buildConfig holds configuration for template builds.
type buildConfig struct {
	onLog        func(line string)
	pollInterval time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

// SandboxOption configures sandbox creation.
type SandboxOption func(*sandboxConfig)

// ListOption configures sandbox listing.
type ListOption func(*listConfig)

// CommandOption configures command execution.
type CommandOption func(*commandConfig)

// PtyOption configures PTY sessions.
type PtyOption func(*ptyConfig)

// WatchOption configures directory watching.
type WatchOption func(*watchConfig)

// BuildOption configures template builds.
type BuildOption func(*buildConfig)

// WithBaseURL sets the control plane base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAgentURL overrides the per-sandbox agent base URL. Intended for
// self-hosted deployments and local debugging; the default derives the
// agent address from the sandbox ID and domain.
func WithAgentURL(url string) Option {
	return func(c *clientConfig) {
		c.agentURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the maximum number of attempts per logical request.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryBackoff sets the base and cap of the exponential backoff
// between attempts. Defaults: 1s base, 10s cap.
func WithRetryBackoff(base, max time.Duration) Option {
	return func(c *clientConfig) {
		c.retryBase = base
		c.retryMax = max
	}
}

// WithRetryOn overrides which HTTP status codes trigger a retry.
// Default: 5xx only. Network errors always retry regardless.
func WithRetryOn(fn func(statusCode int) bool) Option {
	return func(c *clientConfig) {
		c.retryOn = fn
	}
}

// WithLogger sets a structured logger. Transport retry and token refresh
// decisions are logged at debug level. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithSandboxTimeout sets the sandbox's lifetime. The sandbox is killed
// automatically when it elapses; use Sandbox.SetTimeout to extend it.
func WithSandboxTimeout(d time.Duration) SandboxOption {
	return func(c *sandboxConfig) {
		c.timeout = d
	}
}

// WithMetadata attaches arbitrary key/value metadata to the sandbox.
func WithMetadata(metadata map[string]string) SandboxOption {
	return func(c *sandboxConfig) {
		c.metadata = metadata
	}
}

// WithEnvVars sets default environment variables inside the sandbox.
func WithEnvVars(envVars map[string]string) SandboxOption {
	return func(c *sandboxConfig) {
		c.envVars = envVars
	}
}

// WithInternetAccess toggles outbound internet access for the sandbox.
func WithInternetAccess(allowed bool) SandboxOption {
	return func(c *sandboxConfig) {
		c.internetAccess = &allowed
	}
}

// WithState filters listed sandboxes by lifecycle state.
func WithState(state SandboxState) ListOption {
	return func(c *listConfig) {
		c.state = state
	}
}

// WithMetadataFilter keeps only sandboxes whose metadata contains all
// given key/value pairs.
func WithMetadataFilter(metadata map[string]string) ListOption {
	return func(c *listConfig) {
		c.metadata = metadata
	}
}

// WithLimit caps the page size used when listing.
func WithLimit(limit int) ListOption {
	return func(c *listConfig) {
		c.limit = limit
	}
}

// WithCwd sets the working directory for a command.
func WithCwd(cwd string) CommandOption {
	return func(c *commandConfig) {
		c.cwd = cwd
	}
}

// WithUser sets the user a command runs as.
func WithUser(user string) CommandOption {
	return func(c *commandConfig) {
		c.user = user
	}
}

// WithCommandEnv sets extra environment variables for a command.
func WithCommandEnv(envVars map[string]string) CommandOption {
	return func(c *commandConfig) {
		c.envVars = envVars
	}
}

// WithCommandTimeout bounds a command's execution time on the agent.
func WithCommandTimeout(d time.Duration) CommandOption {
	return func(c *commandConfig) {
		c.timeout = d
	}
}

// WithOnStdout streams stdout chunks of a background command to fn.
// fn is called from the stream goroutine and must not block.
func WithOnStdout(fn func(data []byte)) CommandOption {
	return func(c *commandConfig) {
		c.onStdout = fn
	}
}

// WithOnStderr streams stderr chunks of a background command to fn.
func WithOnStderr(fn func(data []byte)) CommandOption {
	return func(c *commandConfig) {
		c.onStderr = fn
	}
}

// WithPtySize sets the initial terminal size. Default: 80x24.
func WithPtySize(cols, rows int) PtyOption {
	return func(c *ptyConfig) {
		c.cols = cols
		c.rows = rows
	}
}

// WithRecursive watches subdirectories as well.
func WithRecursive(recursive bool) WatchOption {
	return func(c *watchConfig) {
		c.recursive = recursive
	}
}

// WithBuildLogs streams build log lines to fn as they are produced.
func WithBuildLogs(fn func(line string)) BuildOption {
	return func(c *buildConfig) {
		c.onLog = fn
	}
}

// WithBuildPollInterval sets the delay between build status polls.
// Default: 2s.
func WithBuildPollInterval(d time.Duration) BuildOption {
	return func(c *buildConfig) {
		c.pollInterval = d
	}
}
