// Package session ties together the mutable state one interpreter instance
// shares across tool calls: open buffers, registers, marks, and the mode
// machine.
//
// Registers and marks deliberately outlive buffer closes so an agent can
// yank in one tool call and put in a later one. A session is constructed
// empty and torn down with Close; nothing is shared between sessions.
package session

import (
	"github.com/google/uuid"

	"github.com/dshills/vimkit/internal/engine/buffer"
	"github.com/dshills/vimkit/internal/engine/mark"
	"github.com/dshills/vimkit/internal/engine/register"
	"github.com/dshills/vimkit/internal/interp/mode"
)

// Session is the per-instance interpreter state.
type Session struct {
	// ID identifies the session in diagnostics.
	ID string

	// Buffers holds the open buffers.
	Buffers *buffer.Store

	// Registers holds yank/delete registers.
	Registers *register.Store

	// Marks holds named line marks.
	Marks *mark.Store

	// Modes is the Normal/Insert machine.
	Modes *mode.Machine

	// current is the path of the buffer commands apply to.
	current string

	// watcher, if any, is owned by the session and closed with it.
	watcher *buffer.Watcher
}

// Option configures a session.
type Option func(*options)

type options struct {
	watch  bool
	backup bool
}

// WithWatch enables on-disk change detection for open buffers.
func WithWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}

// WithBackup enables path~ backups before writes.
func WithBackup(enabled bool) Option {
	return func(o *options) {
		o.backup = enabled
	}
}

// New creates an empty session.
func New(opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	storeOpts := []buffer.StoreOption{buffer.WithBackup(o.backup)}
	var watcher *buffer.Watcher
	if o.watch {
		w, err := buffer.NewWatcher()
		if err != nil {
			return nil, err
		}
		watcher = w
		storeOpts = append(storeOpts, buffer.WithWatcher(w))
	}

	return &Session{
		ID:        uuid.NewString(),
		Buffers:   buffer.NewStore(storeOpts...),
		Registers: register.NewStore(),
		Marks:     mark.NewStore(),
		Modes:     mode.NewMachine(),
		watcher:   watcher,
	}, nil
}

// Current returns the path of the active buffer, or empty string.
func (s *Session) Current() string {
	return s.current
}

// SetCurrent records the active buffer path.
func (s *Session) SetCurrent(path string) {
	s.current = path
}

// ClearCurrent forgets the active buffer (after a close).
func (s *Session) ClearCurrent() {
	s.current = ""
}

// CurrentBuffer returns the active buffer, if one is open.
func (s *Session) CurrentBuffer() (*buffer.Buffer, bool) {
	if s.current == "" {
		return nil, false
	}
	return s.Buffers.Get(s.current)
}

// Close tears the session down.
func (s *Session) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
