package exec

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/vimkit/internal/engine/buffer"
	"github.com/dshills/vimkit/internal/engine/register"
	"github.com/dshills/vimkit/internal/interp/ex"
)

// ErrPatternNotFound is returned when a substitute matches nothing.
var ErrPatternNotFound = errors.New("pattern not found")

// execEx applies one parsed ex command.
func (e *Executor) execEx(ctx context.Context, cmd *ex.Command) error {
	if cmd.Verb == ex.VerbEdit {
		b, err := e.sess.Buffers.Open(cmd.Arg)
		if err != nil {
			return fmt.Errorf("open %s: %w", cmd.Arg, err)
		}
		e.sess.SetCurrent(b.Path())
		return nil
	}

	b, err := e.current()
	if err != nil {
		return err
	}
	switch cmd.Verb {
	case ex.VerbGoto:
		start, end, err := e.resolveRange(b, cmd.Range)
		if err != nil {
			return err
		}
		if end < start {
			end = start
		}
		b.SetCursor(end, 0)
		return nil
	case ex.VerbWrite:
		return e.sess.Buffers.Save(b.Path())
	case ex.VerbQuit:
		closed, err := e.sess.Buffers.Close(b.Path(), false)
		if err != nil {
			return err
		}
		if !closed {
			return errors.New("buffer has unsaved changes (use :q! to discard)")
		}
		e.dropBuffer(b.Path())
		return nil
	case ex.VerbForceQuit:
		if _, err := e.sess.Buffers.Close(b.Path(), true); err != nil {
			return err
		}
		e.dropBuffer(b.Path())
		return nil
	case ex.VerbWriteQuit:
		if err := e.sess.Buffers.Save(b.Path()); err != nil {
			return err
		}
		if _, err := e.sess.Buffers.Close(b.Path(), true); err != nil {
			return err
		}
		e.dropBuffer(b.Path())
		return nil
	case ex.VerbDelete:
		return e.execExDelete(b, cmd)
	case ex.VerbYank:
		return e.execExYank(b, cmd)
	case ex.VerbPut:
		return e.execExPut(b, cmd)
	case ex.VerbSubstitute:
		return e.execSubstitute(b, cmd, false)
	case ex.VerbGlobal:
		return e.execGlobal(ctx, b, cmd)
	case ex.VerbFilter:
		return e.execFilter(ctx, b, cmd)
	default:
		return fmt.Errorf("unhandled ex verb %v", cmd.Verb)
	}
}

// dropBuffer clears per-buffer session state after a close.
func (e *Executor) dropBuffer(path string) {
	e.sess.Marks.DropBuffer(path)
	if e.sess.Current() == path {
		e.sess.ClearCurrent()
	}
	e.sess.Modes.Reset()
	e.pendingBreak = false
}

func (e *Executor) execExDelete(b *buffer.Buffer, cmd *ex.Command) error {
	if b.LineCount() == 0 {
		return errors.New("buffer is empty")
	}
	start, end, err := e.resolveRange(b, cmd.Range)
	if err != nil {
		return err
	}
	removed, err := b.DeleteLines(start, end)
	if err != nil {
		return err
	}
	text := strings.Join(removed, "\n")
	if cmd.Register != 0 {
		e.sess.Registers.Set(cmd.Register, text, true)
	} else {
		e.sess.Registers.SetDelete(text, true)
	}
	e.sess.Marks.AdjustDelete(b.Path(), start, end, b.LineCount())
	return nil
}

func (e *Executor) execExYank(b *buffer.Buffer, cmd *ex.Command) error {
	if b.LineCount() == 0 {
		return errors.New("buffer is empty")
	}
	start, end, err := e.resolveRange(b, cmd.Range)
	if err != nil {
		return err
	}
	lines, err := b.Lines(start, end)
	if err != nil {
		return err
	}
	text := strings.Join(lines, "\n")
	if cmd.Register != 0 {
		e.sess.Registers.Set(cmd.Register, text, true)
	} else {
		e.sess.Registers.SetYank(text, true)
	}
	b.SetCursor(end, 0)
	return nil
}

// execExPut puts register content below the addressed line (the cursor
// line when no address is given).
func (e *Executor) execExPut(b *buffer.Buffer, cmd *ex.Command) error {
	name := cmd.Register
	if name == 0 {
		name = register.Unnamed
	}
	content, _ := e.sess.Registers.Get(name)
	if content == "" {
		return fmt.Errorf("%w: \"%c", ErrEmptyRegister, name)
	}
	at := 1
	if b.LineCount() > 0 {
		_, end, err := e.resolveRange(b, cmd.Range)
		if err != nil {
			return err
		}
		at = end + 1
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if err := b.InsertLines(at, lines); err != nil {
		return err
	}
	e.sess.Marks.AdjustInsert(b.Path(), at, len(lines))
	return nil
}

// execSubstitute replaces pattern matches over the range: the first
// match per line, or all with the g flag. The replacement is literal.
// Zero matches is an error unless the substitute runs under :g, where
// unmatched lines are expected.
func (e *Executor) execSubstitute(b *buffer.Buffer, cmd *ex.Command, inGlobal bool) error {
	if b.LineCount() == 0 {
		if inGlobal {
			return nil
		}
		return ErrPatternNotFound
	}
	start, end, err := e.resolveRange(b, cmd.Range)
	if err != nil {
		return err
	}
	replaced := 0
	lastChanged := 0
	for n := start; n <= end && n <= b.LineCount(); n++ {
		line, err := b.Line(n)
		if err != nil {
			return err
		}
		out, count := replaceLiteral(cmd.Pattern, line, cmd.Replacement, cmd.Flags.Global)
		if count == 0 {
			continue
		}
		if err := b.SetLine(n, out); err != nil {
			return err
		}
		replaced += count
		lastChanged = n
	}
	if replaced == 0 {
		if inGlobal {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrPatternNotFound, cmd.Pattern)
	}
	b.SetCursor(lastChanged, 0)
	return nil
}

// replaceLiteral substitutes matches of re in s with repl taken
// literally, avoiding the $-expansion of Regexp.ReplaceAllString.
func replaceLiteral(re *regexp.Regexp, s, repl string, all bool) (string, int) {
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s, 0
	}
	if !all {
		locs = locs[:1]
	}
	var sb strings.Builder
	prev := 0
	for _, loc := range locs {
		sb.WriteString(s[prev:loc[0]])
		sb.WriteString(repl)
		prev = loc[1]
	}
	sb.WriteString(s[prev:])
	return sb.String(), len(locs)
}

// execGlobal runs the sub-command once per matching line. Matching is
// decided against a snapshot of the range so that deletions performed
// by the sub-command cannot re-target lines, with positions re-resolved
// by the number of lines removed above each target.
func (e *Executor) execGlobal(ctx context.Context, b *buffer.Buffer, cmd *ex.Command) error {
	start, end := 1, b.LineCount()
	if cmd.Range.IsSet() {
		var err error
		start, end, err = e.resolveRange(b, cmd.Range)
		if err != nil {
			return err
		}
	}
	if b.LineCount() == 0 {
		return nil
	}

	var matched []int
	for n := start; n <= end; n++ {
		line, err := b.Line(n)
		if err != nil {
			return err
		}
		if cmd.Pattern.MatchString(line) != cmd.Invert {
			matched = append(matched, n)
		}
	}

	removed := 0
	var firstErr error
	for _, n := range matched {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := n - removed
		if target < 1 || target > b.LineCount() {
			continue
		}
		b.SetCursor(target, 0)
		before := b.LineCount()
		if err := e.execGlobalSub(ctx, b, cmd.Sub); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("line %d: %w", n, err)
		}
		if b.LineCount() < before {
			removed += before - b.LineCount()
		}
	}
	return firstErr
}

// execGlobalSub dispatches the per-line command of :g. Buffer-lifecycle
// verbs are rejected.
func (e *Executor) execGlobalSub(ctx context.Context, b *buffer.Buffer, sub *ex.Command) error {
	switch sub.Verb {
	case ex.VerbDelete:
		return e.execExDelete(b, sub)
	case ex.VerbYank:
		return e.execExYank(b, sub)
	case ex.VerbPut:
		return e.execExPut(b, sub)
	case ex.VerbSubstitute:
		return e.execSubstitute(b, sub, true)
	case ex.VerbFilter:
		return e.execFilter(ctx, b, sub)
	default:
		return fmt.Errorf("%v not supported under :g", sub.Verb)
	}
}
