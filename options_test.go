package hopx

import (
	"net/http"
	"testing"
	"time"
)

func TestOptions_Defaults(t *testing.T) {
	cfg := clientConfig{timeout: defaultTimeout}
	if rc := cfg.retryConfig(); rc != nil {
		t.Errorf("retryConfig() = %+v, want nil so the transport defaults apply", rc)
	}
}

func TestOptions_Apply(t *testing.T) {
	httpClient := &http.Client{}
	var cfg clientConfig
	for _, opt := range []Option{
		WithBaseURL("https://api.test"),
		WithAgentURL("http://127.0.0.1:9000"),
		WithHTTPClient(httpClient),
		WithTimeout(5 * time.Second),
		WithRetries(7),
	} {
		opt(&cfg)
	}

	if cfg.baseURL != "https://api.test" {
		t.Errorf("baseURL = %q", cfg.baseURL)
	}
	if cfg.agentURL != "http://127.0.0.1:9000" {
		t.Errorf("agentURL = %q", cfg.agentURL)
	}
	if cfg.httpClient != httpClient {
		t.Error("httpClient not applied")
	}
	if cfg.timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.timeout)
	}
	if cfg.retries != 7 {
		t.Errorf("retries = %d", cfg.retries)
	}
}

func TestOptions_RetryConfigMapping(t *testing.T) {
	var cfg clientConfig
	WithRetryBackoff(100*time.Millisecond, time.Second)(&cfg)
	WithRetryOn(func(status int) bool { return status == 429 || status >= 500 })(&cfg)

	rc := cfg.retryConfig()
	if rc == nil {
		t.Fatal("retryConfig() = nil with overrides set")
	}
	if rc.BaseDelay != 100*time.Millisecond || rc.MaxDelay != time.Second {
		t.Errorf("backoff = %v/%v, want 100ms/1s", rc.BaseDelay, rc.MaxDelay)
	}
	if !rc.RetryableOn(429) {
		t.Error("custom RetryableOn(429) = false, want true")
	}
	if rc.RetryableOn(404) {
		t.Error("custom RetryableOn(404) = true, want false")
	}
}

func TestOptions_SandboxConfig(t *testing.T) {
	var cfg sandboxConfig
	for _, opt := range []SandboxOption{
		WithSandboxTimeout(time.Hour),
		WithMetadata(map[string]string{"a": "1"}),
		WithEnvVars(map[string]string{"B": "2"}),
		WithInternetAccess(true),
	} {
		opt(&cfg)
	}

	if cfg.timeout != time.Hour {
		t.Errorf("timeout = %v", cfg.timeout)
	}
	if cfg.metadata["a"] != "1" || cfg.envVars["B"] != "2" {
		t.Errorf("metadata/env not applied: %v %v", cfg.metadata, cfg.envVars)
	}
	if cfg.internetAccess == nil || !*cfg.internetAccess {
		t.Error("internetAccess not applied")
	}
}
