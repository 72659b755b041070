package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hopx-ai/hopx-go"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	apiKey     string
	baseURL    string
	configPath string
}

// fileConfig is the shape of ~/.hopx/config.yaml.
type fileConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// loadFileConfig reads the config file at path, or the default location
// when path is empty. A missing file yields a zero config.
func loadFileConfig(path string) (*fileConfig, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return &fileConfig{}, nil
		}
		path = filepath.Join(home, ".hopx", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileConfig{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// newClient builds an SDK client from flags, environment, and the
// config file, in that order of precedence. The environment lookup
// happens inside hopx.New.
func newClient(flags *globalFlags) (*hopx.Client, error) {
	fileCfg, err := loadFileConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	apiKey := flags.apiKey
	if apiKey == "" && os.Getenv("HOPX_API_KEY") == "" {
		apiKey = fileCfg.APIKey
	}

	var opts []hopx.Option
	switch {
	case flags.baseURL != "":
		opts = append(opts, hopx.WithBaseURL(flags.baseURL))
	case os.Getenv("HOPX_BASE_URL") == "" && fileCfg.BaseURL != "":
		opts = append(opts, hopx.WithBaseURL(fileCfg.BaseURL))
	}

	return hopx.New(apiKey, opts...)
}
