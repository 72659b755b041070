package hopx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// templateConfig is the on-disk shape of a hopx.toml file.
//
//	name = "my-template"
//	dockerfile = "Dockerfile"
//	start_cmd = "npm start"
//	ready_cmd = "curl -sf localhost:3000"
//	cpu_count = 2
//	memory_mb = 1024
//
//	[build_args]
//	NODE_VERSION = "22"
//
// dockerfile is a path relative to the config file; dockerfile_inline
// holds literal content instead. Exactly one must be set.
type templateConfig struct {
	Name             string            `toml:"name"`
	Dockerfile       string            `toml:"dockerfile"`
	DockerfileInline string            `toml:"dockerfile_inline"`
	StartCmd         string            `toml:"start_cmd"`
	ReadyCmd         string            `toml:"ready_cmd"`
	CPUCount         int               `toml:"cpu_count"`
	MemoryMB         int               `toml:"memory_mb"`
	BuildArgs        map[string]string `toml:"build_args"`
}

// LoadBuildSpec reads a hopx.toml template definition from path.
func LoadBuildSpec(path string) (*BuildSpec, error) {
	var cfg templateConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse template config %s: %w", path, err)
	}

	if cfg.Name == "" {
		return nil, fmt.Errorf("%s: name is required", path)
	}

	dockerfile := cfg.DockerfileInline
	switch {
	case cfg.Dockerfile != "" && cfg.DockerfileInline != "":
		return nil, fmt.Errorf("%s: dockerfile and dockerfile_inline are mutually exclusive", path)
	case cfg.Dockerfile != "":
		dockerfilePath := cfg.Dockerfile
		if !filepath.IsAbs(dockerfilePath) {
			dockerfilePath = filepath.Join(filepath.Dir(path), dockerfilePath)
		}
		content, err := os.ReadFile(dockerfilePath)
		if err != nil {
			return nil, fmt.Errorf("read dockerfile: %w", err)
		}
		dockerfile = string(content)
	case cfg.DockerfileInline == "":
		return nil, fmt.Errorf("%s: dockerfile or dockerfile_inline is required", path)
	}

	return &BuildSpec{
		Name:       cfg.Name,
		Dockerfile: dockerfile,
		StartCmd:   cfg.StartCmd,
		ReadyCmd:   cfg.ReadyCmd,
		CPUCount:   cfg.CPUCount,
		MemoryMB:   cfg.MemoryMB,
		BuildArgs:  cfg.BuildArgs,
	}, nil
}

// BuildFromConfig loads a hopx.toml definition and builds it.
func (t *Templates) BuildFromConfig(ctx context.Context, path string, opts ...BuildOption) (*Template, error) {
	spec, err := LoadBuildSpec(path)
	if err != nil {
		return nil, err
	}
	return t.Build(ctx, *spec, opts...)
}
