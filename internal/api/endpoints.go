package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Control plane endpoints. These require an API-key client.

// CreateSandbox schedules a new sandbox from a template.
func (c *Client) CreateSandbox(ctx context.Context, req *CreateSandboxRequest) (*CreateSandboxResponse, error) {
	var result CreateSandboxResponse
	if err := c.Post(ctx, "/v1/sandboxes", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConnectSandbox obtains a fresh agent token for an existing sandbox,
// resuming it if paused.
func (c *Client) ConnectSandbox(ctx context.Context, sandboxID string, req *ConnectSandboxRequest) (*ConnectSandboxResponse, error) {
	path := fmt.Sprintf("/v1/sandboxes/%s/connect", url.PathEscape(sandboxID))
	var result ConnectSandboxResponse
	if err := c.Post(ctx, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSandboxesParams filters and paginates ListSandboxes.
type ListSandboxesParams struct {
	State     SandboxState
	Metadata  map[string]string
	NextToken string
	Limit     int
}

// ListSandboxes returns one page of sandboxes.
func (c *Client) ListSandboxes(ctx context.Context, params *ListSandboxesParams) (*ListSandboxesResponse, error) {
	q := url.Values{}
	if params != nil {
		if params.State != "" {
			q.Set("state", string(params.State))
		}
		for k, v := range params.Metadata {
			q.Add("metadata", k+"="+v)
		}
		if params.NextToken != "" {
			q.Set("next_token", params.NextToken)
		}
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
	}

	path := "/v1/sandboxes"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result ListSandboxesResponse
	if err := c.Get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSandbox returns a single sandbox.
func (c *Client) GetSandbox(ctx context.Context, sandboxID string) (*SandboxInfo, error) {
	path := fmt.Sprintf("/v1/sandboxes/%s", url.PathEscape(sandboxID))
	var result SandboxInfo
	if err := c.Get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// KillSandbox terminates a sandbox.
func (c *Client) KillSandbox(ctx context.Context, sandboxID string) error {
	path := fmt.Sprintf("/v1/sandboxes/%s", url.PathEscape(sandboxID))
	return c.Delete(ctx, path)
}

// SetSandboxTimeout resets the sandbox's remaining lifetime.
func (c *Client) SetSandboxTimeout(ctx context.Context, sandboxID string, seconds int) error {
	path := fmt.Sprintf("/v1/sandboxes/%s/timeout", url.PathEscape(sandboxID))
	return c.Post(ctx, path, &SetTimeoutRequest{TimeoutSeconds: seconds}, nil)
}

// PauseSandbox snapshots a running sandbox and stops billing its CPU.
func (c *Client) PauseSandbox(ctx context.Context, sandboxID string) error {
	path := fmt.Sprintf("/v1/sandboxes/%s/pause", url.PathEscape(sandboxID))
	return c.Post(ctx, path, nil, nil)
}

// Template endpoints.

// ListTemplates returns the caller's templates.
func (c *Client) ListTemplates(ctx context.Context) (*ListTemplatesResponse, error) {
	var result ListTemplatesResponse
	if err := c.Get(ctx, "/v1/templates", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTemplate returns a single template.
func (c *Client) GetTemplate(ctx context.Context, templateID string) (*Template, error) {
	path := fmt.Sprintf("/v1/templates/%s", url.PathEscape(templateID))
	var result Template
	if err := c.Get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteTemplate removes a template.
func (c *Client) DeleteTemplate(ctx context.Context, templateID string) error {
	path := fmt.Sprintf("/v1/templates/%s", url.PathEscape(templateID))
	return c.Delete(ctx, path)
}

// CreateTemplate registers a template and queues its first build.
func (c *Client) CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*CreateTemplateResponse, error) {
	var result CreateTemplateResponse
	if err := c.Post(ctx, "/v1/templates", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartTemplateBuild kicks off a queued build job.
func (c *Client) StartTemplateBuild(ctx context.Context, templateID, buildID string) error {
	path := fmt.Sprintf("/v1/templates/%s/builds/%s/start",
		url.PathEscape(templateID), url.PathEscape(buildID))
	return c.Post(ctx, path, nil, nil)
}

// GetTemplateBuildStatus polls a build job. logsOffset is the number of log
// lines already consumed; the response carries only the lines after it.
func (c *Client) GetTemplateBuildStatus(ctx context.Context, templateID, buildID string, logsOffset int) (*BuildStatusResponse, error) {
	path := fmt.Sprintf("/v1/templates/%s/builds/%s/status?logs_offset=%d",
		url.PathEscape(templateID), url.PathEscape(buildID), logsOffset)
	var result BuildStatusResponse
	if err := c.Get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
