package hopx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/hopx-ai/hopx-go/internal/apierrors"
)

// uploadConcurrency bounds parallel uploads in WriteFiles.
const uploadConcurrency = 4

// watchReconnectWait is the base backoff between watch stream redials.
const watchReconnectWait = time.Second

// Files accesses the filesystem inside one sandbox.
type Files struct {
	sandbox *Sandbox
}

// Read downloads a file as a string.
func (f *Files) Read(ctx context.Context, path string) (string, error) {
	data, err := f.ReadBytes(ctx, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadBytes downloads a file's raw content.
func (f *Files) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	return f.sandbox.agent.ReadFile(ctx, path)
}

// Write uploads content to path, creating parent directories as needed.
func (f *Files) Write(ctx context.Context, path string, content []byte) error {
	return f.sandbox.agent.WriteFile(ctx, path, content)
}

// WriteFiles uploads several files in parallel. The first failure
// cancels the remaining uploads.
func (f *Files) WriteFiles(ctx context.Context, files map[string][]byte) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for path, content := range files {
		path, content := path, content
		g.Go(func() error {
			return f.sandbox.agent.WriteFile(ctx, path, content)
		})
	}
	return g.Wait()
}

// List returns the entries of a directory.
func (f *Files) List(ctx context.Context, path string) ([]FileEntry, error) {
	resp, err := f.sandbox.agent.ListFiles(ctx, path)
	if err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Stat returns metadata for one path.
func (f *Files) Stat(ctx context.Context, path string) (*FileEntry, error) {
	return f.sandbox.agent.StatFile(ctx, path)
}

// Exists reports whether a path exists.
func (f *Files) Exists(ctx context.Context, path string) (bool, error) {
	_, err := f.sandbox.agent.StatFile(ctx, path)
	if err != nil {
		if errors.Is(err, apierrors.ErrFileNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove deletes a file or directory tree.
func (f *Files) Remove(ctx context.Context, path string) error {
	return f.sandbox.agent.RemovePath(ctx, path)
}

// Rename moves a file or directory.
func (f *Files) Rename(ctx context.Context, oldPath, newPath string) error {
	return f.sandbox.agent.RenamePath(ctx, oldPath, newPath)
}

// MakeDir creates a directory and any missing parents.
func (f *Files) MakeDir(ctx context.Context, path string) error {
	return f.sandbox.agent.MakeDir(ctx, path)
}

// FileEventType classifies one filesystem event.
type FileEventType string

// Filesystem event types.
const (
	FileEventCreate FileEventType = "create"
	FileEventWrite  FileEventType = "write"
	FileEventRemove FileEventType = "remove"
	FileEventRename FileEventType = "rename"
)

// FileEvent is one filesystem change inside a watched directory.
type FileEvent struct {
	Type FileEventType
	Path string
}

// WatchDir streams filesystem events for a directory. The stream
// redials with exponential backoff when the connection drops and stops
// when ctx is cancelled or the watcher is closed.
func (f *Files) WatchDir(ctx context.Context, path string, opts ...WatchOption) (*Watcher, error) {
	var cfg watchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	wsPath := "/files/watch?path=" + url.QueryEscape(path)
	if cfg.recursive {
		wsPath += "&recursive=true"
	}

	// Dial synchronously so a bad path or dead sandbox fails here, not
	// on the first read.
	conn, err := dialAgent(ctx, f.sandbox, wsPath)
	if err != nil {
		return nil, fmt.Errorf("open watch stream: %w", err)
	}

	w := &Watcher{
		sandbox: f.sandbox,
		path:    wsPath,
		events:  make(chan FileEvent, 16),
		closeCh: make(chan struct{}),
	}
	go w.run(ctx, conn)
	go func() {
		// Cancellation must unblock a reader parked on the socket.
		select {
		case <-ctx.Done():
			w.Close()
		case <-w.closeCh:
		}
	}()
	return w, nil
}

// Watcher delivers filesystem events for one watched directory.
type Watcher struct {
	sandbox *Sandbox
	path    string

	events chan FileEvent

	mu   sync.Mutex
	err  error
	conn *websocket.Conn

	closeCh   chan struct{}
	closeOnce sync.Once
}

// Events returns the event stream. The channel is closed when the
// watcher stops; check Err afterwards.
func (w *Watcher) Events() <-chan FileEvent {
	return w.events
}

// Err returns the error that stopped the watcher, or nil after a clean
// shutdown via Close or context cancellation.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close stops the watcher. Closing the live connection unblocks the
// reader goroutine immediately.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.mu.Lock()
		if w.conn != nil {
			w.conn.Close()
		}
		w.mu.Unlock()
	})
	return nil
}

// setConn records the live connection so Close can shut it down.
func (w *Watcher) setConn(conn *websocket.Conn) {
	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()
}

// run pumps events from the current connection, redialing with
// exponential backoff when it drops.
func (w *Watcher) run(ctx context.Context, conn *websocket.Conn) {
	defer close(w.events)

	attempts := 0
	for {
		w.setConn(conn)
		w.pump(ctx, conn)
		conn.Close()

		select {
		case <-w.closeCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		attempts++
		wait := watchReconnectWait * time.Duration(1<<(attempts-1))
		if wait > 30*time.Second {
			wait = 30 * time.Second
		}
		select {
		case <-w.closeCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		next, err := dialAgent(ctx, w.sandbox, w.path)
		if err != nil {
			if attempts >= 5 {
				w.mu.Lock()
				w.err = fmt.Errorf("watch stream lost: %w", err)
				w.mu.Unlock()
				return
			}
			continue
		}
		conn = next
		attempts = 0
	}
}

// pump reads one connection until it fails or the watcher stops.
func (w *Watcher) pump(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-w.closeCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type != wsTypeFSEvent {
			continue
		}

		event := FileEvent{Type: FileEventType(msg.Event), Path: msg.Path}
		select {
		case w.events <- event:
		case <-w.closeCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
