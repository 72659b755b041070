package api

import "time"

// Version is the SDK version reported in the User-Agent header.
const Version = "0.4.0"

// SandboxState is the lifecycle state reported by the control plane.
type SandboxState string

// Sandbox lifecycle states.
const (
	SandboxStatePending SandboxState = "pending"
	SandboxStateRunning SandboxState = "running"
	SandboxStatePaused  SandboxState = "paused"
	SandboxStateStopped SandboxState = "stopped"
	SandboxStateFailed  SandboxState = "failed"
)

// SandboxInfo represents a sandbox as reported by the control plane.
type SandboxInfo struct {
	SandboxID    string            `json:"sandbox_id"`
	TemplateID   string            `json:"template_id"`
	State        SandboxState      `json:"state"`
	Domain       string            `json:"domain"`
	StartedAt    time.Time         `json:"started_at"`
	EndAt        time.Time         `json:"end_at"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	AgentVersion string            `json:"agent_version,omitempty"`
}

// CreateSandboxRequest is the body for POST /v1/sandboxes.
type CreateSandboxRequest struct {
	TemplateID     string            `json:"template_id"`
	TimeoutSeconds int               `json:"timeout,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	EnvVars        map[string]string `json:"env_vars,omitempty"`
	InternetAccess *bool             `json:"internet_access,omitempty"`
}

// CreateSandboxResponse is the control plane's answer to a create.
// AccessToken authenticates against the agent inside the sandbox.
type CreateSandboxResponse struct {
	SandboxInfo
	AccessToken string `json:"access_token"`
}

// ConnectSandboxRequest is the body for POST /v1/sandboxes/{id}/connect.
// A paused sandbox is resumed as a side effect.
type ConnectSandboxRequest struct {
	TimeoutSeconds int `json:"timeout,omitempty"`
}

// ConnectSandboxResponse carries a fresh agent token for an existing sandbox.
type ConnectSandboxResponse struct {
	SandboxInfo
	AccessToken string `json:"access_token"`
}

// ListSandboxesResponse is a single page of sandboxes.
type ListSandboxesResponse struct {
	Sandboxes []SandboxInfo `json:"sandboxes"`
	NextToken string        `json:"next_token,omitempty"`
}

// SetTimeoutRequest updates a sandbox's remaining lifetime.
type SetTimeoutRequest struct {
	TimeoutSeconds int `json:"timeout"`
}

// Template represents a build specification registered with the platform.
type Template struct {
	TemplateID string    `json:"template_id"`
	Name       string    `json:"name"`
	Public     bool      `json:"public"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	BuildCount int       `json:"build_count"`
}

// ListTemplatesResponse is the GET /v1/templates response.
type ListTemplatesResponse struct {
	Templates []Template `json:"templates"`
}

// CreateTemplateRequest registers a template and requests a build.
type CreateTemplateRequest struct {
	Name       string            `json:"name"`
	Dockerfile string            `json:"dockerfile"`
	StartCmd   string            `json:"start_cmd,omitempty"`
	ReadyCmd   string            `json:"ready_cmd,omitempty"`
	CPUCount   int               `json:"cpu_count,omitempty"`
	MemoryMB   int               `json:"memory_mb,omitempty"`
	BuildArgs  map[string]string `json:"build_args,omitempty"`
}

// CreateTemplateResponse identifies the registered template and its build job.
type CreateTemplateResponse struct {
	TemplateID string `json:"template_id"`
	BuildID    string `json:"build_id"`
}

// BuildState is the remote build pipeline's job state.
type BuildState string

// Build job states.
const (
	BuildStateWaiting  BuildState = "waiting"
	BuildStateBuilding BuildState = "building"
	BuildStateReady    BuildState = "ready"
	BuildStateError    BuildState = "error"
)

// BuildStatusResponse is one poll of a build job. Logs carries the lines
// after the logs_offset cursor the caller supplied.
type BuildStatusResponse struct {
	Status BuildState `json:"status"`
	Logs   []string   `json:"logs"`
	Reason string     `json:"reason,omitempty"`
}

// Agent-side types.

// CommandResult is the outcome of a synchronous command run.
type CommandResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
	Error    string `json:"error,omitempty"`
}

// StartCommandResponse identifies a background command.
type StartCommandResponse struct {
	PID int `json:"pid"`
}

// ProcessInfo describes one running process inside the sandbox.
type ProcessInfo struct {
	PID  int      `json:"pid"`
	Cmd  string   `json:"cmd"`
	Args []string `json:"args,omitempty"`
	Tag  string   `json:"tag,omitempty"`
}

// ListProcessesResponse is the GET /commands response.
type ListProcessesResponse struct {
	Processes []ProcessInfo `json:"processes"`
}

// FileEntry describes one directory entry.
type FileEntry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	IsDir   bool      `json:"is_dir"`
	Size    int64     `json:"size"`
	Mode    string    `json:"mode"`
	ModTime time.Time `json:"mod_time"`
}

// ListFilesResponse is the directory listing response.
type ListFilesResponse struct {
	Entries []FileEntry `json:"entries"`
}

// EnvVarsResponse is the agent's environment variable map.
type EnvVarsResponse struct {
	Vars map[string]string `json:"vars"`
}

// DesktopStreamResponse is returned when a VNC stream is started.
type DesktopStreamResponse struct {
	AuthKey string `json:"auth_key"`
}
