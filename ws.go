package hopx

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// wsHandshakeTimeout bounds the WebSocket upgrade handshake.
const wsHandshakeTimeout = 45 * time.Second

// wsMessage is the agent's WebSocket frame. One shape covers every
// stream; unused fields are omitted on the wire.
type wsMessage struct {
	Type     string `json:"type"`
	Stream   string `json:"stream,omitempty"` // "stdout" or "stderr"
	Data     string `json:"data,omitempty"`
	ExitCode int    `json:"exit_code,omitempty"`
	Cols     int    `json:"cols,omitempty"`
	Rows     int    `json:"rows,omitempty"`
	Message  string `json:"message,omitempty"`
	Event    string `json:"event,omitempty"`
	Path     string `json:"path,omitempty"`
}

// Frame types.
const (
	wsTypeOutput  = "output"
	wsTypeInput   = "input"
	wsTypeResize  = "resize"
	wsTypeExit    = "exit"
	wsTypeError   = "error"
	wsTypeFSEvent = "fs_event"
)

// dialAgent opens an authenticated WebSocket to the sandbox agent.
// The bearer token is re-read on every dial so a refreshed credential
// is picked up.
func dialAgent(ctx context.Context, s *Sandbox, path string) (*websocket.Conn, error) {
	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: wsHandshakeTimeout,
	}

	header := http.Header{}
	if token := s.agent.AccessToken(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := dialer.DialContext(ctx, s.wsURL(path), header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, err
	}
	return conn, nil
}
