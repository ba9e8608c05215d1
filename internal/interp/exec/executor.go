// Package exec runs parsed editing commands against a session.
//
// The executor owns dispatch for both normal-mode tokens and ex command
// lines, insert-mode text handling, and the side effects every mutation
// carries: register writes, mark renumbering, and cursor placement.
package exec

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dshills/vimkit/internal/engine/buffer"
	"github.com/dshills/vimkit/internal/interp/ex"
	"github.com/dshills/vimkit/internal/interp/mode"
	"github.com/dshills/vimkit/internal/interp/vim"
	"github.com/dshills/vimkit/internal/log"
	"github.com/dshills/vimkit/internal/session"
)

// ErrNoBuffer is returned when a command needs a current buffer and none
// is open, for example after :q closed it.
var ErrNoBuffer = errors.New("no buffer open")

const (
	// DefaultShell interprets :! filter command lines.
	DefaultShell = "/bin/sh"
	// DefaultFilterTimeout bounds a single external filter run.
	DefaultFilterTimeout = 10 * time.Second
)

// Result reports the outcome of one command batch. Commands that fail
// are collected as diagnostics and never abort the batch.
type Result struct {
	Executed    int
	Diagnostics []string
}

// Summary renders the result the way tool callers surface it.
func (r Result) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Executed %d command(s)", r.Executed)
	for _, d := range r.Diagnostics {
		sb.WriteString("\n")
		sb.WriteString(d)
	}
	return sb.String()
}

// Executor applies command batches to the buffers of one session.
type Executor struct {
	sess          *session.Session
	shell         string
	filterTimeout time.Duration
	logger        *log.Logger

	// pendingBreak is set after an insert-mode text token so that the
	// next text token starts on a fresh line. An explicit newline token
	// consumes it instead of adding a second break.
	pendingBreak bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithShell sets the shell used for :! filter commands.
func WithShell(shell string) Option {
	return func(e *Executor) {
		if shell != "" {
			e.shell = shell
		}
	}
}

// WithFilterTimeout bounds external filter runs.
func WithFilterTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.filterTimeout = d
		}
	}
}

// WithLogger sets the logger for command tracing.
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Executor bound to sess.
func New(sess *session.Session, opts ...Option) *Executor {
	e := &Executor{
		sess:          sess,
		shell:         DefaultShell,
		filterTimeout: DefaultFilterTimeout,
		logger:        log.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run opens path, makes it the current buffer, and applies commands in
// order. A command that fails produces a diagnostic and execution moves
// on to the next one; the returned error is reserved for failures that
// prevent the batch from starting at all.
func (e *Executor) Run(ctx context.Context, path string, commands []string) (Result, error) {
	buf, err := e.sess.Buffers.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	e.sess.SetCurrent(buf.Path())

	logger := e.logger.With("path", buf.Path())
	logger.Debug("running %d command(s)", len(commands))

	var res Result
	for i, tok := range commands {
		if err := ctx.Err(); err != nil {
			res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("command %d (%q): %v", i+1, tok, err))
			break
		}
		var cmdErr error
		if e.sess.Modes.Current() == mode.Insert {
			cmdErr = e.execInsertToken(tok)
		} else {
			cmdErr = e.execNormalToken(ctx, tok)
		}
		if cmdErr != nil {
			logger.Warn("command %d (%q) failed: %v", i+1, tok, cmdErr)
			res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("command %d (%q): %v", i+1, tok, cmdErr))
			continue
		}
		res.Executed++
	}
	return res, nil
}

// execNormalToken dispatches a single normal-mode token: ex command
// lines start with a colon, everything else is vim grammar.
func (e *Executor) execNormalToken(ctx context.Context, tok string) error {
	if strings.HasPrefix(tok, ":") {
		cmd, err := ex.Parse(tok)
		if err != nil {
			return err
		}
		return e.execEx(ctx, cmd)
	}
	cmd, err := vim.Parse(tok)
	if err != nil {
		return err
	}
	return e.execNormal(cmd)
}

// current returns the current buffer or ErrNoBuffer.
func (e *Executor) current() (*buffer.Buffer, error) {
	b, ok := e.sess.CurrentBuffer()
	if !ok {
		return nil, ErrNoBuffer
	}
	return b, nil
}

// resolveRange resolves rng against the current state of b.
func (e *Executor) resolveRange(b *buffer.Buffer, rng ex.Range) (int, int, error) {
	rc := ex.ResolveContext{
		CursorLine: b.Cursor().Line,
		LineCount:  b.LineCount(),
		MarkLine: func(name rune) (int, bool) {
			return e.sess.Marks.Resolve(name, b.Path())
		},
		FindPattern: func(re *regexp.Regexp) (int, bool) {
			return findForward(b, re)
		},
	}
	return rng.Resolve(rc)
}

// findForward searches for re from the line after the cursor, wrapping
// to the top of the buffer.
func findForward(b *buffer.Buffer, re *regexp.Regexp) (int, bool) {
	n := b.LineCount()
	if n == 0 {
		return 0, false
	}
	start := b.Cursor().Line
	for i := 1; i <= n; i++ {
		candidate := (start+i-1)%n + 1
		line, err := b.Line(candidate)
		if err != nil {
			return 0, false
		}
		if re.MatchString(line) {
			return candidate, true
		}
	}
	return 0, false
}
