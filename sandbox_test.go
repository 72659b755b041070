package hopx

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/hopx-ai/hopx-go/internal/api"
)

// newTestSandbox creates a sandbox handle through a create call so the
// handle's agent client points at the same test server.
func newTestSandbox(t *testing.T, handler http.Handler) *Sandbox {
	t.Helper()
	client, _ := newTestClient(t, handler)
	sandbox, err := client.CreateSandbox(context.Background(), "base")
	if err != nil {
		t.Fatalf("CreateSandbox() error = %v", err)
	}
	return sandbox
}

func TestSandbox_Host(t *testing.T) {
	s := &Sandbox{info: api.SandboxInfo{SandboxID: "sb-42", Domain: "hopx.dev"}}
	if got := s.Host(3000); got != "3000-sb-42.hopx.dev" {
		t.Errorf("Host(3000) = %q, want %q", got, "3000-sb-42.hopx.dev")
	}
}

func TestSandbox_AgentHostDerivation(t *testing.T) {
	t.Setenv("HOPX_AGENT_URL", "")
	client, err := New("test-key", WithBaseURL("https://api.example.com"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sandbox, err := client.newSandbox(api.SandboxInfo{
		SandboxID: "sb-42",
		Domain:    "hopx.dev",
	}, "token")
	if err != nil {
		t.Fatalf("newSandbox() error = %v", err)
	}

	want := "https://49983-sb-42.hopx.dev"
	if got := sandbox.agent.BaseURL(); got != want {
		t.Errorf("agent base URL = %q, want %q", got, want)
	}
}

func TestSandbox_Info(t *testing.T) {
	sandbox := newTestSandbox(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/v1/sandboxes/sb-1" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"sandbox_id":  "sb-1",
				"template_id": "base",
				"state":       "paused",
				"domain":      "hopx.dev",
			})
			return
		}
		json.NewEncoder(w).Encode(sandboxJSON("sb-1"))
	}))

	info, err := sandbox.Info(context.Background())
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.State != StatePaused {
		t.Errorf("State = %q, want %q", info.State, StatePaused)
	}

	running, err := sandbox.IsRunning(context.Background())
	if err != nil {
		t.Fatalf("IsRunning() error = %v", err)
	}
	if running {
		t.Error("IsRunning() = true for paused sandbox")
	}
}

func TestSandbox_SetTimeout(t *testing.T) {
	var gotBody map[string]interface{}
	sandbox := newTestSandbox(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/sandboxes/sb-1/timeout" {
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		json.NewEncoder(w).Encode(sandboxJSON("sb-1"))
	}))

	if err := sandbox.SetTimeout(context.Background(), 10*time.Minute); err != nil {
		t.Fatalf("SetTimeout() error = %v", err)
	}
	if gotBody["timeout"] != float64(600) {
		t.Errorf("timeout = %v, want 600", gotBody["timeout"])
	}
}

func TestSandbox_Kill(t *testing.T) {
	var killed bool
	sandbox := newTestSandbox(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && r.URL.Path == "/v1/sandboxes/sb-1" {
			killed = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
		json.NewEncoder(w).Encode(sandboxJSON("sb-1"))
	}))

	if err := sandbox.Kill(context.Background()); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}
	if !killed {
		t.Error("Kill() did not hit DELETE /v1/sandboxes/sb-1")
	}
}

func TestSandbox_WSURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"https://49983-sb-1.hopx.dev", "/pty", "wss://49983-sb-1.hopx.dev/pty"},
		{"http://127.0.0.1:9000", "/files/watch", "ws://127.0.0.1:9000/files/watch"},
	}

	for _, tt := range tests {
		agent, err := api.NewClient(api.Config{BaseURL: tt.base, AccessToken: "tok"})
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		s := &Sandbox{agent: agent}
		if got := s.wsURL(tt.path); got != tt.want {
			t.Errorf("wsURL(%q) with base %q = %q, want %q", tt.path, tt.base, got, tt.want)
		}
	}
}
