package hopx

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hopx-ai/hopx-go/internal/api"
)

// defaultBuildPollInterval is the delay between build status polls.
const defaultBuildPollInterval = 2 * time.Second

// Templates manages build templates on the control plane.
type Templates struct {
	api *api.Client
}

// BuildSpec describes a template to build.
type BuildSpec struct {
	Name       string
	Dockerfile string
	StartCmd   string
	ReadyCmd   string
	CPUCount   int
	MemoryMB   int
	BuildArgs  map[string]string
}

// BuildFailedError reports a remote build that ended in the error state.
type BuildFailedError struct {
	TemplateID string
	BuildID    string
	Reason     string
}

func (e *BuildFailedError) Error() string {
	return fmt.Sprintf("template build %s failed: %s", e.BuildID, e.Reason)
}

// List returns the caller's templates.
func (t *Templates) List(ctx context.Context) ([]Template, error) {
	resp, err := t.api.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Templates, nil
}

// Get returns one template.
func (t *Templates) Get(ctx context.Context, templateID string) (*Template, error) {
	return t.api.GetTemplate(ctx, templateID)
}

// Delete removes a template.
func (t *Templates) Delete(ctx context.Context, templateID string) error {
	return t.api.DeleteTemplate(ctx, templateID)
}

// Build registers a template, runs its build remotely, and blocks until
// the build finishes. Log lines stream to the WithBuildLogs callback as
// the build produces them. A failed build returns *BuildFailedError.
func (t *Templates) Build(ctx context.Context, spec BuildSpec, opts ...BuildOption) (*Template, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("template name is required")
	}
	if spec.Dockerfile == "" {
		return nil, fmt.Errorf("dockerfile is required")
	}

	cfg := buildConfig{pollInterval: defaultBuildPollInterval}
	for _, opt := range opts {
		opt(&cfg)
	}

	created, err := t.api.CreateTemplate(ctx, &api.CreateTemplateRequest{
		Name:       spec.Name,
		Dockerfile: spec.Dockerfile,
		StartCmd:   spec.StartCmd,
		ReadyCmd:   spec.ReadyCmd,
		CPUCount:   spec.CPUCount,
		MemoryMB:   spec.MemoryMB,
		BuildArgs:  spec.BuildArgs,
	})
	if err != nil {
		return nil, err
	}

	if err := t.api.StartTemplateBuild(ctx, created.TemplateID, created.BuildID); err != nil {
		return nil, err
	}

	if err := t.pollBuild(ctx, created.TemplateID, created.BuildID, cfg); err != nil {
		return nil, err
	}

	return t.api.GetTemplate(ctx, created.TemplateID)
}

// pollBuild polls the build job until it reaches a terminal state. The
// poller and the log consumer run as separate goroutines so a slow log
// callback never delays status polling.
func (t *Templates) pollBuild(ctx context.Context, templateID, buildID string, cfg buildConfig) error {
	logs := make(chan string, 64)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(logs)

		offset := 0
		for {
			status, err := t.api.GetTemplateBuildStatus(ctx, templateID, buildID, offset)
			if err != nil {
				return err
			}

			for _, line := range status.Logs {
				select {
				case logs <- line:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			offset += len(status.Logs)

			switch status.Status {
			case BuildReady:
				return nil
			case BuildError:
				return &BuildFailedError{
					TemplateID: templateID,
					BuildID:    buildID,
					Reason:     status.Reason,
				}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.pollInterval):
			}
		}
	})

	g.Go(func() error {
		for line := range logs {
			if cfg.onLog != nil {
				cfg.onLog(line)
			}
		}
		return nil
	})

	return g.Wait()
}
