package hopx

import (
	"context"
	"fmt"
)

// MouseButton identifies a mouse button for click actions.
type MouseButton string

// Mouse buttons.
const (
	MouseLeft   MouseButton = "left"
	MouseRight  MouseButton = "right"
	MouseMiddle MouseButton = "middle"
)

// Desktop automates the graphical desktop of one sandbox. The sandbox
// must run a desktop template; other templates answer these calls with
// a feature-unavailable error.
type Desktop struct {
	sandbox *Sandbox
}

// Screenshot captures the screen as PNG bytes.
func (d *Desktop) Screenshot(ctx context.Context) ([]byte, error) {
	return d.sandbox.agent.Screenshot(ctx)
}

// MouseMove moves the cursor to absolute coordinates.
func (d *Desktop) MouseMove(ctx context.Context, x, y int) error {
	body := struct {
		X int `json:"x"`
		Y int `json:"y"`
	}{X: x, Y: y}
	return d.sandbox.agent.DesktopAction(ctx, "/desktop/mouse/move", body)
}

// Click presses and releases a mouse button at the cursor's position.
func (d *Desktop) Click(ctx context.Context, button MouseButton) error {
	body := struct {
		Button string `json:"button"`
	}{Button: string(button)}
	return d.sandbox.agent.DesktopAction(ctx, "/desktop/mouse/click", body)
}

// DoubleClick double-clicks the left button.
func (d *Desktop) DoubleClick(ctx context.Context) error {
	body := struct {
		Button string `json:"button"`
		Double bool   `json:"double"`
	}{Button: string(MouseLeft), Double: true}
	return d.sandbox.agent.DesktopAction(ctx, "/desktop/mouse/click", body)
}

// Scroll scrolls by dx, dy wheel ticks.
func (d *Desktop) Scroll(ctx context.Context, dx, dy int) error {
	body := struct {
		DX int `json:"dx"`
		DY int `json:"dy"`
	}{DX: dx, DY: dy}
	return d.sandbox.agent.DesktopAction(ctx, "/desktop/mouse/scroll", body)
}

// TypeText types text as keyboard input.
func (d *Desktop) TypeText(ctx context.Context, text string) error {
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	return d.sandbox.agent.DesktopAction(ctx, "/desktop/keyboard/write", body)
}

// PressKey presses a single named key, e.g. "enter" or "escape".
func (d *Desktop) PressKey(ctx context.Context, key string) error {
	body := struct {
		Key string `json:"key"`
	}{Key: key}
	return d.sandbox.agent.DesktopAction(ctx, "/desktop/keyboard/press", body)
}

// Hotkey presses a key combination, e.g. Hotkey(ctx, "ctrl", "c").
func (d *Desktop) Hotkey(ctx context.Context, keys ...string) error {
	body := struct {
		Keys []string `json:"keys"`
	}{Keys: keys}
	return d.sandbox.agent.DesktopAction(ctx, "/desktop/keyboard/hotkey", body)
}

// OpenURL opens a URL in the sandbox's default browser.
func (d *Desktop) OpenURL(ctx context.Context, url string) error {
	body := struct {
		URL string `json:"url"`
	}{URL: url}
	return d.sandbox.agent.DesktopAction(ctx, "/desktop/open", body)
}

// StartStream starts the VNC stream and returns the browser URL for
// viewing it, authenticated with the stream's key.
func (d *Desktop) StartStream(ctx context.Context) (string, error) {
	resp, err := d.sandbox.agent.StartDesktopStream(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s/stream?auth_key=%s", d.sandbox.Host(agentPort), resp.AuthKey), nil
}

// StopStream stops the VNC stream.
func (d *Desktop) StopStream(ctx context.Context) error {
	return d.sandbox.agent.StopDesktopStream(ctx)
}
