package hopx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hopx-ai/hopx-go/internal/api"
)

// Sandbox is a handle to one running sandbox. It wraps two transports:
// the control plane client it was created from, and a bearer-token
// client for the agent inside the sandbox.
type Sandbox struct {
	info   api.SandboxInfo
	client *Client
	agent  *api.Client
}

// ID returns the sandbox ID.
func (s *Sandbox) ID() string {
	return s.info.SandboxID
}

// TemplateID returns the template the sandbox was started from.
func (s *Sandbox) TemplateID() string {
	return s.info.TemplateID
}

// Metadata returns the metadata attached at creation.
func (s *Sandbox) Metadata() map[string]string {
	return s.info.Metadata
}

// Host returns the public hostname for a port exposed inside the
// sandbox, e.g. Host(3000) for a dev server listening on 3000.
func (s *Sandbox) Host(port int) string {
	return fmt.Sprintf("%d-%s.%s", port, s.info.SandboxID, s.info.Domain)
}

// Info fetches the current control plane view of the sandbox and
// updates the handle's cached copy.
func (s *Sandbox) Info(ctx context.Context) (*SandboxInfo, error) {
	info, err := s.client.api.GetSandbox(ctx, s.info.SandboxID)
	if err != nil {
		return nil, err
	}
	s.info = *info
	return info, nil
}

// IsRunning reports whether the sandbox is currently running.
func (s *Sandbox) IsRunning(ctx context.Context) (bool, error) {
	info, err := s.Info(ctx)
	if err != nil {
		return false, err
	}
	return info.State == StateRunning, nil
}

// SetTimeout resets the sandbox's remaining lifetime to d from now.
func (s *Sandbox) SetTimeout(ctx context.Context, d time.Duration) error {
	return s.client.api.SetSandboxTimeout(ctx, s.info.SandboxID, int(d/time.Second))
}

// Pause snapshots the sandbox. Reconnecting through ConnectSandbox
// resumes it.
func (s *Sandbox) Pause(ctx context.Context) error {
	return s.client.api.PauseSandbox(ctx, s.info.SandboxID)
}

// Kill terminates the sandbox. The handle is unusable afterwards.
func (s *Sandbox) Kill(ctx context.Context) error {
	return s.client.api.KillSandbox(ctx, s.info.SandboxID)
}

// Commands returns the command execution surface.
func (s *Sandbox) Commands() *Commands {
	return &Commands{sandbox: s}
}

// Files returns the filesystem surface.
func (s *Sandbox) Files() *Files {
	return &Files{sandbox: s}
}

// Envs returns the environment variable surface.
func (s *Sandbox) Envs() *Envs {
	return &Envs{sandbox: s}
}

// Pty returns the interactive terminal surface.
func (s *Sandbox) Pty() *Pty {
	return &Pty{sandbox: s}
}

// Desktop returns the desktop automation surface.
func (s *Sandbox) Desktop() *Desktop {
	return &Desktop{sandbox: s}
}

// wsURL converts the agent's base URL to a WebSocket URL for path.
func (s *Sandbox) wsURL(path string) string {
	base := s.agent.BaseURL()
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + path
}
