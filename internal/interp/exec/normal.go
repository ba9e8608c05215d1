package exec

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/vimkit/internal/engine/buffer"
	"github.com/dshills/vimkit/internal/engine/register"
	"github.com/dshills/vimkit/internal/interp/vim"
)

// ErrEmptyRegister is returned when a put names a register with no content.
var ErrEmptyRegister = errors.New("register empty")

// ErrMarkNotSet is returned when a mark motion names an unset mark.
var ErrMarkNotSet = errors.New("mark not set")

// execNormal applies one parsed normal-mode command to the current buffer.
func (e *Executor) execNormal(cmd *vim.Command) error {
	b, err := e.current()
	if err != nil {
		return err
	}
	switch cmd.Kind {
	case vim.KindMotion:
		line, col, err := e.motionTarget(b, cmd.Motion, cmd)
		if err != nil {
			return err
		}
		b.SetCursor(line, col)
		return nil
	case vim.KindOperator:
		return e.execOperator(b, cmd)
	case vim.KindPut:
		return e.execPut(b, cmd, true)
	case vim.KindPutBefore:
		return e.execPut(b, cmd, false)
	case vim.KindDeleteChar:
		return e.execDeleteChar(b, cmd)
	case vim.KindSetMark:
		return e.sess.Marks.Set(cmd.Mark, b.Path(), b.Cursor().Line)
	case vim.KindEnterInsert:
		return e.enterInsert(b, cmd.Entry)
	default:
		return fmt.Errorf("unhandled command kind %v", cmd.Kind)
	}
}

// motionTarget computes the cursor position a motion lands on. Word
// motions stay within the current line; vertical motions keep the
// column and rely on SetCursor clamping.
func (e *Executor) motionTarget(b *buffer.Buffer, m *vim.Motion, cmd *vim.Command) (int, int, error) {
	cur := b.Cursor()
	count := cmd.EffectiveCount()
	line, _ := b.Line(cur.Line)
	runes := []rune(line)

	switch m.Name {
	case vim.MotionLeft.Name:
		return cur.Line, cur.Col - count, nil
	case vim.MotionRight.Name:
		return cur.Line, cur.Col + count, nil
	case vim.MotionUp.Name:
		return cur.Line - count, cur.Col, nil
	case vim.MotionDown.Name:
		return cur.Line + count, cur.Col, nil
	case vim.MotionLineStart.Name:
		return cur.Line, 0, nil
	case vim.MotionFirstNonBlank.Name:
		return cur.Line, firstNonBlank(runes), nil
	case vim.MotionLineEnd.Name:
		return cur.Line, len(runes), nil
	case vim.MotionWordForward.Name:
		return cur.Line, wordForward(runes, cur.Col, count), nil
	case vim.MotionWordBackward.Name:
		return cur.Line, wordBackward(runes, cur.Col, count), nil
	case vim.MotionWordEnd.Name:
		return cur.Line, wordEnd(runes, cur.Col, count), nil
	case vim.MotionDocumentStart.Name:
		if m.CountIsLine && cmd.Count > 0 {
			return cmd.Count, 0, nil
		}
		return 1, 0, nil
	case vim.MotionDocumentEnd.Name:
		if m.CountIsLine && cmd.Count > 0 {
			return cmd.Count, 0, nil
		}
		return b.LineCount(), 0, nil
	case vim.MotionMark.Name:
		target, ok := e.sess.Marks.Resolve(cmd.Mark, b.Path())
		if !ok {
			return 0, 0, fmt.Errorf("%w: '%c", ErrMarkNotSet, cmd.Mark)
		}
		return target, 0, nil
	default:
		return 0, 0, fmt.Errorf("unhandled motion %q", m.Name)
	}
}

// execOperator applies delete, yank, or change over a linewise or
// charwise span.
func (e *Executor) execOperator(b *buffer.Buffer, cmd *vim.Command) error {
	if b.LineCount() == 0 {
		return errors.New("buffer is empty")
	}
	linewise := cmd.Linewise || (cmd.Motion != nil && cmd.Motion.Type == vim.MotionLinewise)
	if linewise {
		return e.execLinewiseOperator(b, cmd)
	}
	return e.execCharwiseOperator(b, cmd)
}

func (e *Executor) execLinewiseOperator(b *buffer.Buffer, cmd *vim.Command) error {
	cur := b.Cursor()
	var start, end int
	if cmd.Linewise {
		start = cur.Line
		end = start + cmd.EffectiveCount() - 1
	} else {
		target, _, err := e.motionTarget(b, cmd.Motion, cmd)
		if err != nil {
			return err
		}
		if target < 1 {
			target = 1
		}
		if target > b.LineCount() {
			target = b.LineCount()
		}
		start, end = cur.Line, target
		if start > end {
			start, end = end, start
		}
	}
	if end > b.LineCount() {
		end = b.LineCount()
	}

	lines, err := b.Lines(start, end)
	if err != nil {
		return err
	}
	text := strings.Join(lines, "\n")
	e.recordRegister(cmd, cmd.Operator, text, true)

	if cmd.Operator.Name == vim.OpYank.Name {
		b.SetCursor(start, 0)
		return nil
	}
	if _, err := b.DeleteLines(start, end); err != nil {
		return err
	}
	e.sess.Marks.AdjustDelete(b.Path(), start, end, b.LineCount())
	if cmd.Operator.EntersInsert {
		// Change replaces the span with one empty line and starts typing there.
		at := start
		if at > b.LineCount()+1 {
			at = b.LineCount() + 1
		}
		if err := b.InsertLines(at, []string{""}); err != nil {
			return err
		}
		e.sess.Marks.AdjustInsert(b.Path(), at, 1)
		e.startInsert()
	}
	return nil
}

func (e *Executor) execCharwiseOperator(b *buffer.Buffer, cmd *vim.Command) error {
	cur := b.Cursor()
	line, err := b.Line(cur.Line)
	if err != nil {
		return err
	}
	runes := []rune(line)
	motion := cmd.Motion
	// cw on a word acts like ce: the trailing blank survives.
	if cmd.Operator.EntersInsert && motion.Name == vim.MotionWordForward.Name &&
		cur.Col < len(runes) && charClass(runes[cur.Col]) != 0 {
		motion = &vim.MotionWordEnd
	}
	_, target, err := e.motionTarget(b, motion, cmd)
	if err != nil {
		return err
	}
	start, end := cur.Col, target
	if motion.Name == vim.MotionWordEnd.Name {
		end++ // e is inclusive
	}
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start == end {
		return nil
	}
	text := string(runes[start:end])
	e.recordRegister(cmd, cmd.Operator, text, false)

	if cmd.Operator.Name == vim.OpYank.Name {
		return nil
	}
	if err := b.SetLine(cur.Line, string(runes[:start])+string(runes[end:])); err != nil {
		return err
	}
	b.SetCursor(cur.Line, start)
	if cmd.Operator.EntersInsert {
		e.startInsert()
	}
	return nil
}

// recordRegister routes operator text into the register store: an
// explicit register bypasses the unnamed register and delete rotation,
// and only linewise deletes rotate the numbered history.
func (e *Executor) recordRegister(cmd *vim.Command, op *vim.Operator, text string, linewise bool) {
	if cmd.Register != 0 {
		e.sess.Registers.Set(cmd.Register, text, linewise)
		return
	}
	switch {
	case op.Name == vim.OpYank.Name:
		e.sess.Registers.SetYank(text, linewise)
	case linewise:
		e.sess.Registers.SetDelete(text, linewise)
	default:
		e.sess.Registers.Set(register.Unnamed, text, linewise)
	}
}

// execPut inserts register content after (p) or before (P) the cursor.
func (e *Executor) execPut(b *buffer.Buffer, cmd *vim.Command, after bool) error {
	name := cmd.Register
	if name == 0 {
		name = register.Unnamed
	}
	content, linewise := e.sess.Registers.Get(name)
	if content == "" {
		return fmt.Errorf("%w: \"%c", ErrEmptyRegister, name)
	}
	count := cmd.EffectiveCount()

	if linewise {
		block := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		lines := make([]string, 0, len(block)*count)
		for i := 0; i < count; i++ {
			lines = append(lines, block...)
		}
		at := 1
		if b.LineCount() > 0 {
			if after {
				at = b.Cursor().Line + 1
			} else {
				at = b.Cursor().Line
			}
		}
		if err := b.InsertLines(at, lines); err != nil {
			return err
		}
		e.sess.Marks.AdjustInsert(b.Path(), at, len(lines))
		return nil
	}

	if b.LineCount() == 0 {
		if err := b.InsertLines(1, []string{""}); err != nil {
			return err
		}
	}
	cur := b.Cursor()
	line, err := b.Line(cur.Line)
	if err != nil {
		return err
	}
	runes := []rune(line)
	col := cur.Col
	if after && len(runes) > 0 {
		col++
	}
	if col > len(runes) {
		col = len(runes)
	}
	text := strings.Repeat(content, count)
	if err := b.SetLine(cur.Line, string(runes[:col])+text+string(runes[col:])); err != nil {
		return err
	}
	b.SetCursor(cur.Line, col+len([]rune(text))-1)
	return nil
}

// execDeleteChar implements x: delete count characters under and after
// the cursor on the current line.
func (e *Executor) execDeleteChar(b *buffer.Buffer, cmd *vim.Command) error {
	if b.LineCount() == 0 {
		return errors.New("buffer is empty")
	}
	cur := b.Cursor()
	line, err := b.Line(cur.Line)
	if err != nil {
		return err
	}
	runes := []rune(line)
	if cur.Col >= len(runes) {
		return nil
	}
	end := cur.Col + cmd.EffectiveCount()
	if end > len(runes) {
		end = len(runes)
	}
	removed := string(runes[cur.Col:end])
	if cmd.Register != 0 {
		e.sess.Registers.Set(cmd.Register, removed, false)
	} else {
		e.sess.Registers.Set(register.Unnamed, removed, false)
	}
	if err := b.SetLine(cur.Line, string(runes[:cur.Col])+string(runes[end:])); err != nil {
		return err
	}
	b.SetCursor(cur.Line, cur.Col)
	return nil
}

// enterInsert positions the cursor for an insert entry and switches
// modes. Open commands (o, O) create their line immediately.
func (e *Executor) enterInsert(b *buffer.Buffer, entry vim.Entry) error {
	if b.LineCount() == 0 {
		if err := b.InsertLines(1, []string{""}); err != nil {
			return err
		}
	}
	cur := b.Cursor()
	line, err := b.Line(cur.Line)
	if err != nil {
		return err
	}
	runes := []rune(line)

	switch entry {
	case vim.EntryBefore:
		// Cursor stays put.
	case vim.EntryAfter:
		if cur.Col < len(runes) {
			b.SetCursor(cur.Line, cur.Col+1)
		}
	case vim.EntryLineStart:
		b.SetCursor(cur.Line, firstNonBlank(runes))
	case vim.EntryLineEnd:
		b.SetCursor(cur.Line, len(runes))
	case vim.EntryOpenBelow:
		if err := b.InsertLines(cur.Line+1, []string{""}); err != nil {
			return err
		}
		e.sess.Marks.AdjustInsert(b.Path(), cur.Line+1, 1)
	case vim.EntryOpenAbove:
		if err := b.InsertLines(cur.Line, []string{""}); err != nil {
			return err
		}
		e.sess.Marks.AdjustInsert(b.Path(), cur.Line, 1)
	default:
		return fmt.Errorf("unhandled insert entry %v", entry)
	}
	e.startInsert()
	return nil
}

// startInsert flips the mode machine and clears any stale line break.
func (e *Executor) startInsert() {
	e.sess.Modes.EnterInsert()
	e.pendingBreak = false
}

// charClass partitions runes the way word motions see them: whitespace,
// word characters, and everything else.
func charClass(r rune) int {
	switch {
	case unicode.IsSpace(r):
		return 0
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return 1
	default:
		return 2
	}
}

func firstNonBlank(runes []rune) int {
	for i, r := range runes {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	return 0
}

// wordForward advances to the start of the count-th next word,
// stopping at end of line.
func wordForward(runes []rune, col, count int) int {
	for i := 0; i < count; i++ {
		if col >= len(runes) {
			break
		}
		cls := charClass(runes[col])
		if cls != 0 {
			for col < len(runes) && charClass(runes[col]) == cls {
				col++
			}
		}
		for col < len(runes) && charClass(runes[col]) == 0 {
			col++
		}
	}
	if col > len(runes) {
		col = len(runes)
	}
	return col
}

// wordBackward moves to the start of the count-th previous word.
func wordBackward(runes []rune, col, count int) int {
	for i := 0; i < count; i++ {
		if col <= 0 {
			break
		}
		col--
		for col > 0 && charClass(runes[col]) == 0 {
			col--
		}
		cls := charClass(runes[col])
		for col > 0 && charClass(runes[col-1]) == cls {
			col--
		}
	}
	if col < 0 {
		col = 0
	}
	return col
}

// wordEnd moves to the last character of the count-th next word.
func wordEnd(runes []rune, col, count int) int {
	for i := 0; i < count; i++ {
		if col >= len(runes)-1 {
			break
		}
		col++
		for col < len(runes) && charClass(runes[col]) == 0 {
			col++
		}
		if col >= len(runes) {
			col = len(runes) - 1
			break
		}
		cls := charClass(runes[col])
		for col+1 < len(runes) && charClass(runes[col+1]) == cls {
			col++
		}
	}
	if col > len(runes)-1 {
		col = len(runes) - 1
	}
	if col < 0 {
		col = 0
	}
	return col
}
