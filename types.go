package hopx

import "github.com/hopx-ai/hopx-go/internal/api"

// Wire types shared with the control plane and agent, re-exported so
// callers never import internal packages.

// SandboxState is the lifecycle state of a sandbox.
type SandboxState = api.SandboxState

// Sandbox lifecycle states.
const (
	StatePending = api.SandboxStatePending
	StateRunning = api.SandboxStateRunning
	StatePaused  = api.SandboxStatePaused
	StateStopped = api.SandboxStateStopped
	StateFailed  = api.SandboxStateFailed
)

// SandboxInfo describes a sandbox as reported by the control plane.
type SandboxInfo = api.SandboxInfo

// Template is a build specification registered with the platform.
type Template = api.Template

// BuildState is the state of a remote template build job.
type BuildState = api.BuildState

// Build job states.
const (
	BuildWaiting  = api.BuildStateWaiting
	BuildBuilding = api.BuildStateBuilding
	BuildReady    = api.BuildStateReady
	BuildError    = api.BuildStateError
)

// CommandResult is the outcome of a finished command.
type CommandResult = api.CommandResult

// ProcessInfo describes one process supervised by the agent.
type ProcessInfo = api.ProcessInfo

// FileEntry describes one file or directory inside the sandbox.
type FileEntry = api.FileEntry
