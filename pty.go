package hopx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/gorilla/websocket"
)

// Default terminal size for new PTY sessions.
const (
	defaultPtyCols = 80
	defaultPtyRows = 24
)

// Pty creates interactive terminal sessions inside one sandbox.
type Pty struct {
	sandbox *Sandbox
}

// Create opens a new PTY session attached to a shell in the sandbox.
func (p *Pty) Create(ctx context.Context, opts ...PtyOption) (*PtySession, error) {
	cfg := ptyConfig{cols: defaultPtyCols, rows: defaultPtyRows}
	for _, opt := range opts {
		opt(&cfg)
	}

	path := fmt.Sprintf("/pty?cols=%d&rows=%d", cfg.cols, cfg.rows)
	conn, err := dialAgent(ctx, p.sandbox, path)
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}

	s := &PtySession{
		ws:      conn,
		readCh:  make(chan struct{}, 1),
		exitCh:  make(chan struct{}),
		closeCh: make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// PtySession is an interactive terminal over WebSocket. It implements
// io.Reader for the terminal's output (stdout and stderr merged, as a
// terminal does) and io.Writer for its input.
type PtySession struct {
	ws *websocket.Conn

	readBuf bytes.Buffer
	readMu  sync.Mutex
	readCh  chan struct{}

	exitCode int
	exitCh   chan struct{}
	exitOnce sync.Once

	closeCh   chan struct{}
	closeOnce sync.Once
}

// readLoop drains terminal frames into the read buffer until the shell
// exits or the connection drops.
func (s *PtySession) readLoop() {
	defer s.exitOnce.Do(func() { close(s.exitCh) })

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		_, message, err := s.ws.ReadMessage()
		if err != nil {
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case wsTypeOutput:
			s.pushOutput(msg.Data)
		case wsTypeExit:
			s.exitCode = msg.ExitCode
			return
		case wsTypeError:
			s.exitCode = 1
			s.pushOutput(fmt.Sprintf("\r\nerror: %s\r\n", msg.Message))
			return
		}
	}
}

func (s *PtySession) pushOutput(data string) {
	s.readMu.Lock()
	s.readBuf.WriteString(data)
	s.readMu.Unlock()

	select {
	case s.readCh <- struct{}{}:
	default:
	}
}

// Read returns terminal output, blocking until data arrives or the
// session ends.
func (s *PtySession) Read(p []byte) (int, error) {
	for {
		s.readMu.Lock()
		n, _ := s.readBuf.Read(p)
		s.readMu.Unlock()

		if n > 0 {
			return n, nil
		}

		select {
		case <-s.readCh:
			continue
		case <-s.exitCh:
			// Session over; hand out whatever is left.
			s.readMu.Lock()
			n, _ = s.readBuf.Read(p)
			s.readMu.Unlock()
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		case <-s.closeCh:
			return 0, io.EOF
		}
	}
}

// Write sends keystrokes to the terminal.
func (s *PtySession) Write(p []byte) (int, error) {
	msg, _ := json.Marshal(wsMessage{Type: wsTypeInput, Data: string(p)})
	if err := s.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Resize changes the terminal size.
func (s *PtySession) Resize(cols, rows int) error {
	msg, _ := json.Marshal(wsMessage{Type: wsTypeResize, Cols: cols, Rows: rows})
	return s.ws.WriteMessage(websocket.TextMessage, msg)
}

// Wait blocks until the shell exits and returns its exit code.
func (s *PtySession) Wait(ctx context.Context) (int, error) {
	select {
	case <-s.exitCh:
		return s.exitCode, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Close tears down the session and its connection.
func (s *PtySession) Close() error {
	s.closeOnce.Do(func() { close(s.closeCh) })
	return s.ws.Close()
}
