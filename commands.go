package hopx

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hopx-ai/hopx-go/internal/api"
)

// Commands executes commands inside one sandbox.
type Commands struct {
	sandbox *Sandbox
}

// Run executes a command and waits for it to finish. A nonzero exit
// code is not an error; callers check CommandResult.ExitCode.
func (c *Commands) Run(ctx context.Context, cmd string, opts ...CommandOption) (*CommandResult, error) {
	if cmd == "" {
		return nil, fmt.Errorf("command is required")
	}

	cfg := applyCommandOptions(opts)
	return c.sandbox.agent.RunCommand(ctx, &api.RunCommandRequest{
		Cmd:     cmd,
		Cwd:     cfg.cwd,
		User:    cfg.user,
		EnvVars: cfg.envVars,
		Timeout: int(cfg.timeout / time.Second),
	})
}

// Start launches a command in the background and returns a handle for
// it. When WithOnStdout or WithOnStderr is given, a WebSocket stream is
// opened and output chunks are delivered to the callbacks as the
// command produces them.
func (c *Commands) Start(ctx context.Context, cmd string, opts ...CommandOption) (*CommandHandle, error) {
	if cmd == "" {
		return nil, fmt.Errorf("command is required")
	}

	cfg := applyCommandOptions(opts)
	tag := uuid.NewString()

	resp, err := c.sandbox.agent.StartCommand(ctx, &api.RunCommandRequest{
		Cmd:     cmd,
		Cwd:     cfg.cwd,
		User:    cfg.user,
		EnvVars: cfg.envVars,
		Timeout: int(cfg.timeout / time.Second),
		Tag:     tag,
	})
	if err != nil {
		return nil, err
	}

	handle := &CommandHandle{
		sandbox: c.sandbox,
		pid:     resp.PID,
		tag:     tag,
		cmd:     cmd,
		done:    make(chan struct{}),
	}

	if cfg.onStdout == nil && cfg.onStderr == nil {
		close(handle.done)
		return handle, nil
	}

	conn, err := dialAgent(ctx, c.sandbox, fmt.Sprintf("/commands/%d/stream", resp.PID))
	if err != nil {
		// The command is already running; kill it rather than leak it.
		_ = c.sandbox.agent.KillProcess(ctx, resp.PID)
		return nil, fmt.Errorf("open output stream: %w", err)
	}
	handle.ws = conn
	go handle.streamLoop(cfg.onStdout, cfg.onStderr)

	return handle, nil
}

// List returns the processes the agent is supervising.
func (c *Commands) List(ctx context.Context) ([]ProcessInfo, error) {
	resp, err := c.sandbox.agent.ListProcesses(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Processes, nil
}

// Kill terminates a process by PID.
func (c *Commands) Kill(ctx context.Context, pid int) error {
	return c.sandbox.agent.KillProcess(ctx, pid)
}

// CommandHandle tracks one background command.
type CommandHandle struct {
	sandbox *Sandbox
	pid     int
	tag     string
	cmd     string

	ws        *websocket.Conn
	done      chan struct{}
	closeOnce sync.Once
}

// PID returns the process ID on the agent.
func (h *CommandHandle) PID() int {
	return h.pid
}

// Tag returns the client-generated ID the process was started with.
// It shows up in Commands.List output, so a process can be found again
// after the handle is gone.
func (h *CommandHandle) Tag() string {
	return h.tag
}

// Wait blocks until the command exits and returns its result.
func (h *CommandHandle) Wait(ctx context.Context) (*CommandResult, error) {
	result, err := h.sandbox.agent.WaitCommand(ctx, h.pid)
	// The stream, if any, ends on its own exit frame; waiting for it
	// here guarantees every output chunk was delivered before Wait
	// returns.
	if err == nil && h.ws != nil {
		select {
		case <-h.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return result, err
}

// Kill terminates the command.
func (h *CommandHandle) Kill(ctx context.Context) error {
	return h.sandbox.agent.KillProcess(ctx, h.pid)
}

// SendStdin writes data to the command's stdin.
func (h *CommandHandle) SendStdin(ctx context.Context, data []byte) error {
	return h.sandbox.agent.SendStdin(ctx, h.pid, data)
}

// Close tears down the output stream, if one is open. The command
// itself keeps running; use Kill to stop it.
func (h *CommandHandle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		if h.ws != nil {
			err = h.ws.Close()
		}
	})
	return err
}

// streamLoop reads output frames and dispatches them to the callbacks
// until the exit frame arrives or the connection drops.
func (h *CommandHandle) streamLoop(onStdout, onStderr func(data []byte)) {
	defer close(h.done)
	defer h.Close()

	for {
		_, message, err := h.ws.ReadMessage()
		if err != nil {
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case wsTypeOutput:
			switch msg.Stream {
			case "stderr":
				if onStderr != nil {
					onStderr([]byte(msg.Data))
				}
			default:
				if onStdout != nil {
					onStdout([]byte(msg.Data))
				}
			}
		case wsTypeExit, wsTypeError:
			return
		}
	}
}

func applyCommandOptions(opts []CommandOption) commandConfig {
	var cfg commandConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
