package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// Agent endpoints. These require a bearer-token client whose base URL
// points at the agent inside one sandbox.

// Health checks that the agent is up and serving requests.
func (c *Client) Health(ctx context.Context) error {
	return c.Get(ctx, "/health", nil)
}

// RunCommandRequest is the body for a synchronous command run.
type RunCommandRequest struct {
	Cmd     string            `json:"cmd"`
	Cwd     string            `json:"cwd,omitempty"`
	User    string            `json:"user,omitempty"`
	EnvVars map[string]string `json:"env_vars,omitempty"`
	Timeout int               `json:"timeout,omitempty"`
	// Tag is a client-generated ID for finding the process again in
	// ListProcesses. Only meaningful for background commands.
	Tag string `json:"tag,omitempty"`
}

// RunCommand executes a command and waits for it to finish.
func (c *Client) RunCommand(ctx context.Context, req *RunCommandRequest) (*CommandResult, error) {
	var result CommandResult
	if err := c.Post(ctx, "/commands", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartCommand launches a command in the background and returns its PID.
func (c *Client) StartCommand(ctx context.Context, req *RunCommandRequest) (*StartCommandResponse, error) {
	var result StartCommandResponse
	if err := c.Post(ctx, "/commands/start", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListProcesses returns the processes the agent is supervising.
func (c *Client) ListProcesses(ctx context.Context) (*ListProcessesResponse, error) {
	var result ListProcessesResponse
	if err := c.Get(ctx, "/commands", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// WaitCommand blocks server-side until the process exits.
func (c *Client) WaitCommand(ctx context.Context, pid int) (*CommandResult, error) {
	var result CommandResult
	if err := c.Get(ctx, fmt.Sprintf("/commands/%d/wait", pid), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// KillProcess terminates a supervised process.
func (c *Client) KillProcess(ctx context.Context, pid int) error {
	return c.Delete(ctx, fmt.Sprintf("/commands/%d", pid))
}

// SendStdin writes data to a background command's stdin.
func (c *Client) SendStdin(ctx context.Context, pid int, data []byte) error {
	body := struct {
		Data string `json:"data"`
	}{Data: string(data)}
	return c.Post(ctx, fmt.Sprintf("/commands/%d/stdin", pid), body, nil)
}

// Filesystem.

// ReadFile downloads a file's raw content.
func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.DoRaw(ctx, "GET", "/files?path="+url.QueryEscape(path), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// WriteFile uploads content as a multipart form, creating parent
// directories as needed.
func (c *Client) WriteFile(ctx context.Context, path string, content []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "file")
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write file content: %w", err)
	}
	if err := writer.WriteField("path", path); err != nil {
		return fmt.Errorf("write path field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := c.DoRaw(ctx, "POST", "/files", &body, writer.FormDataContentType())
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// ListFiles lists a directory.
func (c *Client) ListFiles(ctx context.Context, path string) (*ListFilesResponse, error) {
	var result ListFilesResponse
	if err := c.Get(ctx, "/files/list?path="+url.QueryEscape(path), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StatFile returns metadata for one path.
func (c *Client) StatFile(ctx context.Context, path string) (*FileEntry, error) {
	var result FileEntry
	if err := c.Get(ctx, "/files/stat?path="+url.QueryEscape(path), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemovePath deletes a file or directory tree.
func (c *Client) RemovePath(ctx context.Context, path string) error {
	return c.Delete(ctx, "/files?path="+url.QueryEscape(path))
}

// RenamePath moves a file or directory.
func (c *Client) RenamePath(ctx context.Context, oldPath, newPath string) error {
	body := struct {
		OldPath string `json:"old_path"`
		NewPath string `json:"new_path"`
	}{OldPath: oldPath, NewPath: newPath}
	return c.Post(ctx, "/files/rename", body, nil)
}

// MakeDir creates a directory and any missing parents.
func (c *Client) MakeDir(ctx context.Context, path string) error {
	body := struct {
		Path string `json:"path"`
	}{Path: path}
	return c.Post(ctx, "/files/mkdir", body, nil)
}

// Environment variables.

// GetEnvVars returns all environment variables set on the agent.
func (c *Client) GetEnvVars(ctx context.Context) (map[string]string, error) {
	var result EnvVarsResponse
	if err := c.Get(ctx, "/envs", &result); err != nil {
		return nil, err
	}
	if result.Vars == nil {
		result.Vars = map[string]string{}
	}
	return result.Vars, nil
}

// SetEnvVars replaces the agent's full environment variable set.
func (c *Client) SetEnvVars(ctx context.Context, vars map[string]string) error {
	return c.Put(ctx, "/envs", &EnvVarsResponse{Vars: vars}, nil)
}

// UpdateEnvVars merges vars into the agent's environment.
func (c *Client) UpdateEnvVars(ctx context.Context, vars map[string]string) error {
	return c.Patch(ctx, "/envs", &EnvVarsResponse{Vars: vars}, nil)
}

// Desktop automation.

// Screenshot captures the desktop as PNG bytes.
func (c *Client) Screenshot(ctx context.Context) ([]byte, error) {
	resp, err := c.DoRaw(ctx, "GET", "/desktop/screenshot", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// DesktopAction posts one input action (mouse, keyboard, launch).
func (c *Client) DesktopAction(ctx context.Context, path string, body interface{}) error {
	return c.Post(ctx, path, body, nil)
}

// StartDesktopStream starts the VNC stream and returns its auth key.
func (c *Client) StartDesktopStream(ctx context.Context) (*DesktopStreamResponse, error) {
	var result DesktopStreamResponse
	if err := c.Post(ctx, "/desktop/stream/start", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StopDesktopStream stops the VNC stream.
func (c *Client) StopDesktopStream(ctx context.Context) error {
	return c.Post(ctx, "/desktop/stream/stop", nil, nil)
}
