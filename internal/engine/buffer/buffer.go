package buffer

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange = errors.New("line out of range")
	ErrRangeInvalid   = errors.New("invalid range")
	ErrNoPath         = errors.New("buffer has no file path")
)

// Cursor is a position within a buffer. Line is 1-based, Col is a 0-based
// rune offset into the line.
type Cursor struct {
	Line int
	Col  int
}

// Buffer holds one file's lines together with cursor and dirty state.
//
// A buffer with zero lines is valid and represents an empty file. The cursor
// line is always clamped to [1, max(1, LineCount)].
type Buffer struct {
	path   string
	lines  []string
	cursor Cursor
	dirty  bool
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{cursor: Cursor{Line: 1}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromString creates a buffer with initial content. A single trailing
// newline is not stored as an extra empty line; it is re-added on Save.
func FromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.lines = splitContent(s)
	return b
}

// FromFile loads path into a new buffer. A missing file yields an empty
// buffer for that path; any other read failure is returned.
func FromFile(path string, opts ...Option) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(append(opts, WithPath(path))...), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	b := FromString(string(data), opts...)
	b.path = path
	return b, nil
}

// splitContent converts file content to lines, dropping the final empty
// segment produced by a trailing newline.
func splitContent(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Path returns the buffer's file path, or empty string for an unnamed buffer.
func (b *Buffer) Path() string {
	return b.path
}

// Dirty reports whether the buffer has unsaved modifications.
func (b *Buffer) Dirty() bool {
	return b.dirty
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the 1-based line n.
func (b *Buffer) Line(n int) (string, error) {
	if n < 1 || n > len(b.lines) {
		return "", fmt.Errorf("%w: %d", ErrLineOutOfRange, n)
	}
	return b.lines[n-1], nil
}

// Lines returns a copy of the 1-based inclusive span [start, end].
func (b *Buffer) Lines(start, end int) ([]string, error) {
	if start < 1 || end > len(b.lines) || start > end {
		return nil, fmt.Errorf("%w: %d,%d", ErrRangeInvalid, start, end)
	}
	out := make([]string, end-start+1)
	copy(out, b.lines[start-1:end])
	return out, nil
}

// AllLines returns a copy of every line.
func (b *Buffer) AllLines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Content returns the buffer joined with newlines, with a trailing newline
// when the buffer is non-empty.
func (b *Buffer) Content() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Cursor {
	return b.cursor
}

// SetCursor moves the cursor, clamping line to [1, max(1, LineCount)] and
// column to [0, len(line)].
func (b *Buffer) SetCursor(line, col int) {
	maxLine := len(b.lines)
	if maxLine < 1 {
		maxLine = 1
	}
	if line < 1 {
		line = 1
	}
	if line > maxLine {
		line = maxLine
	}
	lineLen := 0
	if line >= 1 && line <= len(b.lines) {
		lineLen = len([]rune(b.lines[line-1]))
	}
	if col < 0 {
		col = 0
	}
	if col > lineLen {
		col = lineLen
	}
	b.cursor = Cursor{Line: line, Col: col}
}

// SetLine replaces the 1-based line n.
func (b *Buffer) SetLine(n int, text string) error {
	if n < 1 || n > len(b.lines) {
		return fmt.Errorf("%w: %d", ErrLineOutOfRange, n)
	}
	b.lines[n-1] = text
	b.dirty = true
	return nil
}

// InsertLines inserts lines before the 1-based position at. Position
// LineCount+1 appends. The cursor is left on the first inserted line.
func (b *Buffer) InsertLines(at int, lines []string) error {
	if at < 1 || at > len(b.lines)+1 {
		return fmt.Errorf("%w: %d", ErrLineOutOfRange, at)
	}
	if len(lines) == 0 {
		return nil
	}
	b.lines = append(b.lines[:at-1], append(append([]string(nil), lines...), b.lines[at-1:]...)...)
	b.dirty = true
	b.SetCursor(at, 0)
	return nil
}

// DeleteLines removes the 1-based inclusive span [start, end] and returns
// the removed lines. The cursor is left on the line that slid into the
// start slot, clamped to the new end of buffer.
func (b *Buffer) DeleteLines(start, end int) ([]string, error) {
	if start < 1 || end > len(b.lines) || start > end {
		return nil, fmt.Errorf("%w: %d,%d", ErrRangeInvalid, start, end)
	}
	removed := make([]string, end-start+1)
	copy(removed, b.lines[start-1:end])
	b.lines = append(b.lines[:start-1], b.lines[end:]...)
	b.dirty = true
	b.SetCursor(start, 0)
	return removed, nil
}

// ReplaceLines substitutes the span [start, end] with the given lines, which
// may differ in length. The cursor is left at the start of the replacement.
func (b *Buffer) ReplaceLines(start, end int, lines []string) error {
	if start < 1 || end > len(b.lines) || start > end {
		return fmt.Errorf("%w: %d,%d", ErrRangeInvalid, start, end)
	}
	tail := append([]string(nil), b.lines[end:]...)
	b.lines = append(b.lines[:start-1], append(append([]string(nil), lines...), tail...)...)
	b.dirty = true
	b.SetCursor(start, 0)
	return nil
}

// SplitLine breaks the 1-based line n at rune column col, leaving the cursor
// at the start of the new line.
func (b *Buffer) SplitLine(n, col int) error {
	if n < 1 || n > len(b.lines) {
		return fmt.Errorf("%w: %d", ErrLineOutOfRange, n)
	}
	runes := []rune(b.lines[n-1])
	if col < 0 {
		col = 0
	}
	if col > len(runes) {
		col = len(runes)
	}
	left, right := string(runes[:col]), string(runes[col:])
	b.lines[n-1] = left
	rest := append([]string(nil), b.lines[n:]...)
	b.lines = append(b.lines[:n], append([]string{right}, rest...)...)
	b.dirty = true
	b.SetCursor(n+1, 0)
	return nil
}

// JoinWithPrevious merges line n into the end of line n-1, leaving the
// cursor at the join point.
func (b *Buffer) JoinWithPrevious(n int) error {
	if n < 2 || n > len(b.lines) {
		return fmt.Errorf("%w: %d", ErrLineOutOfRange, n)
	}
	joinCol := len([]rune(b.lines[n-2]))
	b.lines[n-2] += b.lines[n-1]
	b.lines = append(b.lines[:n-1], b.lines[n:]...)
	b.dirty = true
	b.SetCursor(n-1, joinCol)
	return nil
}

// Save writes the buffer content to its path and clears the dirty flag.
func (b *Buffer) Save() error {
	if b.path == "" {
		return ErrNoPath
	}
	if err := os.WriteFile(b.path, []byte(b.Content()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", b.path, err)
	}
	b.dirty = false
	return nil
}
