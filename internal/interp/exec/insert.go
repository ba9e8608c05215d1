package exec

import (
	"strings"

	"github.com/dshills/vimkit/internal/engine/buffer"
	"github.com/dshills/vimkit/internal/interp/mode"
)

// execInsertToken handles one token while the session is in insert
// mode. Text tokens behave as typed lines: the first lands at the
// cursor, each following text token opens a new line first. An explicit
// newline token consumes the pending break so "a\n" sequences do not
// double up.
func (e *Executor) execInsertToken(tok string) error {
	b, err := e.current()
	if err != nil {
		return err
	}
	switch mode.ClassifyInsertToken(tok) {
	case mode.ActionEscape:
		e.sess.Modes.ExitInsert()
		e.pendingBreak = false
		return nil
	case mode.ActionNewline:
		e.pendingBreak = false
		return e.insertBreak(b)
	case mode.ActionBackspace:
		return e.backspace(b)
	default:
		for i, seg := range strings.Split(tok, "\n") {
			if i > 0 || e.pendingBreak {
				e.pendingBreak = false
				if err := e.insertBreak(b); err != nil {
					return err
				}
			}
			if err := e.insertText(b, seg); err != nil {
				return err
			}
		}
		e.pendingBreak = true
		return nil
	}
}

// ensureLine materializes the single empty line an empty buffer
// implies once typing starts.
func (e *Executor) ensureLine(b *buffer.Buffer) error {
	if b.LineCount() > 0 {
		return nil
	}
	return b.InsertLines(1, []string{""})
}

// insertBreak splits the current line at the cursor column.
func (e *Executor) insertBreak(b *buffer.Buffer) error {
	if err := e.ensureLine(b); err != nil {
		return err
	}
	cur := b.Cursor()
	if err := b.SplitLine(cur.Line, cur.Col); err != nil {
		return err
	}
	e.sess.Marks.AdjustInsert(b.Path(), cur.Line+1, 1)
	return nil
}

// insertText types seg at the cursor and advances past it.
func (e *Executor) insertText(b *buffer.Buffer, seg string) error {
	if err := e.ensureLine(b); err != nil {
		return err
	}
	if seg == "" {
		return nil
	}
	cur := b.Cursor()
	line, err := b.Line(cur.Line)
	if err != nil {
		return err
	}
	runes := []rune(line)
	col := cur.Col
	if col > len(runes) {
		col = len(runes)
	}
	if err := b.SetLine(cur.Line, string(runes[:col])+seg+string(runes[col:])); err != nil {
		return err
	}
	b.SetCursor(cur.Line, col+len([]rune(seg)))
	return nil
}

// backspace deletes one character left of the cursor, joining with the
// previous line at column zero.
func (e *Executor) backspace(b *buffer.Buffer) error {
	if err := e.ensureLine(b); err != nil {
		return err
	}
	e.pendingBreak = false
	cur := b.Cursor()
	if cur.Col > 0 {
		line, err := b.Line(cur.Line)
		if err != nil {
			return err
		}
		runes := []rune(line)
		if err := b.SetLine(cur.Line, string(runes[:cur.Col-1])+string(runes[cur.Col:])); err != nil {
			return err
		}
		b.SetCursor(cur.Line, cur.Col-1)
		return nil
	}
	if cur.Line <= 1 {
		return nil
	}
	if err := b.JoinWithPrevious(cur.Line); err != nil {
		return err
	}
	e.sess.Marks.AdjustDelete(b.Path(), cur.Line, cur.Line, b.LineCount())
	return nil
}
