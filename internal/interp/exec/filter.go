package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"

	"github.com/dshills/vimkit/internal/engine/buffer"
	"github.com/dshills/vimkit/internal/interp/ex"
)

// execFilter pipes the addressed lines through a shell command and
// replaces them with its stdout. On a non-zero exit or timeout the
// buffer is left untouched.
func (e *Executor) execFilter(ctx context.Context, b *buffer.Buffer, cmd *ex.Command) error {
	start, end, err := e.resolveRange(b, cmd.Range)
	if err != nil {
		return err
	}

	var input string
	if end >= start {
		lines, err := b.Lines(start, end)
		if err != nil {
			return err
		}
		input = strings.Join(lines, "\n") + "\n"
	}

	cctx, cancel := context.WithTimeout(ctx, e.filterTimeout)
	defer cancel()
	proc := osexec.CommandContext(cctx, e.shell, "-c", cmd.Arg)
	proc.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	if err := proc.Run(); err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("filter %q timed out after %s", cmd.Arg, e.filterTimeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("filter %q failed: %w: %s", cmd.Arg, err, msg)
		}
		return fmt.Errorf("filter %q failed: %w", cmd.Arg, err)
	}

	out := splitOutput(stdout.String())
	if end < start {
		// Empty buffer: the filter output becomes the whole content.
		if len(out) == 0 {
			return nil
		}
		if err := b.InsertLines(1, out); err != nil {
			return err
		}
		e.sess.Marks.AdjustInsert(b.Path(), 1, len(out))
		return nil
	}
	if err := b.ReplaceLines(start, end, out); err != nil {
		return err
	}
	e.sess.Marks.AdjustReplace(b.Path(), start, end, len(out), b.LineCount())
	return nil
}

// splitOutput converts command stdout to buffer lines, treating a
// single trailing newline as a terminator rather than an empty line.
func splitOutput(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
