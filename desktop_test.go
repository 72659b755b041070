package hopx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

// desktopRecorder captures the last desktop action path and body.
type desktopRecorder struct {
	path string
	body map[string]interface{}
}

func newDesktopSandbox(t *testing.T, rec *desktopRecorder) *Sandbox {
	t.Helper()
	return newTestSandbox(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/desktop/"):
			rec.path = r.URL.Path
			json.NewDecoder(r.Body).Decode(&rec.body)
			json.NewEncoder(w).Encode(map[string]interface{}{"auth_key": "vnc-key"})
		default:
			json.NewEncoder(w).Encode(sandboxJSON("sb-1"))
		}
	}))
}

func TestDesktop_MouseActions(t *testing.T) {
	var rec desktopRecorder
	desktop := newDesktopSandbox(t, &rec).Desktop()
	ctx := context.Background()

	if err := desktop.MouseMove(ctx, 100, 200); err != nil {
		t.Fatalf("MouseMove() error = %v", err)
	}
	if rec.path != "/desktop/mouse/move" {
		t.Errorf("path = %s, want /desktop/mouse/move", rec.path)
	}
	if rec.body["x"] != float64(100) || rec.body["y"] != float64(200) {
		t.Errorf("body = %v, want x=100 y=200", rec.body)
	}

	if err := desktop.Click(ctx, MouseRight); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	if rec.body["button"] != "right" {
		t.Errorf("button = %v, want right", rec.body["button"])
	}

	if err := desktop.DoubleClick(ctx); err != nil {
		t.Fatalf("DoubleClick() error = %v", err)
	}
	if rec.body["double"] != true {
		t.Errorf("double = %v, want true", rec.body["double"])
	}

	if err := desktop.Scroll(ctx, 0, -3); err != nil {
		t.Fatalf("Scroll() error = %v", err)
	}
	if rec.path != "/desktop/mouse/scroll" || rec.body["dy"] != float64(-3) {
		t.Errorf("scroll = %s %v, want dy=-3", rec.path, rec.body)
	}
}

func TestDesktop_KeyboardActions(t *testing.T) {
	var rec desktopRecorder
	desktop := newDesktopSandbox(t, &rec).Desktop()
	ctx := context.Background()

	if err := desktop.TypeText(ctx, "hello world"); err != nil {
		t.Fatalf("TypeText() error = %v", err)
	}
	if rec.path != "/desktop/keyboard/write" || rec.body["text"] != "hello world" {
		t.Errorf("write = %s %v", rec.path, rec.body)
	}

	if err := desktop.PressKey(ctx, "enter"); err != nil {
		t.Fatalf("PressKey() error = %v", err)
	}
	if rec.body["key"] != "enter" {
		t.Errorf("key = %v, want enter", rec.body["key"])
	}

	if err := desktop.Hotkey(ctx, "ctrl", "shift", "t"); err != nil {
		t.Fatalf("Hotkey() error = %v", err)
	}
	keys := rec.body["keys"].([]interface{})
	if len(keys) != 3 || keys[0] != "ctrl" {
		t.Errorf("keys = %v, want [ctrl shift t]", keys)
	}
}

func TestDesktop_OpenURL(t *testing.T) {
	var rec desktopRecorder
	desktop := newDesktopSandbox(t, &rec).Desktop()

	if err := desktop.OpenURL(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("OpenURL() error = %v", err)
	}
	if rec.path != "/desktop/open" || rec.body["url"] != "https://example.com" {
		t.Errorf("open = %s %v", rec.path, rec.body)
	}
}

func TestDesktop_Screenshot(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	sandbox := newTestSandbox(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/desktop/screenshot" {
			w.Write(png)
			return
		}
		json.NewEncoder(w).Encode(sandboxJSON("sb-1"))
	}))

	data, err := sandbox.Desktop().Screenshot(context.Background())
	if err != nil {
		t.Fatalf("Screenshot() error = %v", err)
	}
	if string(data) != string(png) {
		t.Errorf("Screenshot() = %v, want PNG header bytes", data)
	}
}

func TestDesktop_StartStream(t *testing.T) {
	var rec desktopRecorder
	desktop := newDesktopSandbox(t, &rec).Desktop()

	url, err := desktop.StartStream(context.Background())
	if err != nil {
		t.Fatalf("StartStream() error = %v", err)
	}
	want := "https://49983-sb-1.hopx.dev/stream?auth_key=vnc-key"
	if url != want {
		t.Errorf("StartStream() = %q, want %q", url, want)
	}
}
