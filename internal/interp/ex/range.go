package ex

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMarkNotSet is returned when a range references an unset mark.
var ErrMarkNotSet = errors.New("mark not set")

// ErrNoMatch is returned when a pattern address matches no line.
var ErrNoMatch = errors.New("no match for pattern")

// AddressKind discriminates range addresses.
type AddressKind uint8

const (
	// AddrNone means no address was given.
	AddrNone AddressKind = iota

	// AddrLine is an absolute line number.
	AddrLine

	// AddrCurrent is the cursor line (.).
	AddrCurrent

	// AddrLast is the last line ($).
	AddrLast

	// AddrMark is a mark line ('x).
	AddrMark

	// AddrPattern is the next line matching a pattern (/pat/).
	AddrPattern
)

// Address is one endpoint of a range.
type Address struct {
	// Kind discriminates the address.
	Kind AddressKind

	// Line is the line number for AddrLine.
	Line int

	// Mark is the mark letter for AddrMark.
	Mark rune

	// Pattern is the compiled expression for AddrPattern.
	Pattern *regexp.Regexp
}

// Range is the optional [start[,end]] prefix of an ex command.
type Range struct {
	// All marks the whole-buffer range %.
	All bool

	// Start and End are the range endpoints; End.Kind == AddrNone means a
	// single-address range.
	Start Address
	End   Address
}

// IsSet reports whether any range was given.
func (r Range) IsSet() bool {
	return r.All || r.Start.Kind != AddrNone
}

// ResolveContext supplies the buffer state a range resolves against.
type ResolveContext struct {
	// CursorLine is the 1-based cursor line.
	CursorLine int

	// LineCount is the buffer length.
	LineCount int

	// MarkLine resolves a mark letter to its line in this buffer.
	MarkLine func(name rune) (int, bool)

	// FindPattern locates the next line matching re, searching forward
	// from the line after the cursor and wrapping.
	FindPattern func(re *regexp.Regexp) (int, bool)
}

// Resolve produces the concrete 1-based [start, end] span. With no range
// given, both default to the cursor line. Endpoints are clamped to
// [1, LineCount] and normalized to file order. On an empty buffer the span
// is (1, 0); callers decide whether an empty span is acceptable.
func (r Range) Resolve(ctx ResolveContext) (int, int, error) {
	if ctx.LineCount == 0 {
		return 1, 0, nil
	}
	if r.All {
		return 1, ctx.LineCount, nil
	}

	start, err := r.Start.resolve(ctx)
	if err != nil {
		return 0, 0, err
	}
	end := start
	if r.End.Kind != AddrNone {
		if end, err = r.End.resolve(ctx); err != nil {
			return 0, 0, err
		}
	}

	start = clamp(start, 1, ctx.LineCount)
	end = clamp(end, 1, ctx.LineCount)
	if start > end {
		start, end = end, start
	}
	return start, end, nil
}

func (a Address) resolve(ctx ResolveContext) (int, error) {
	switch a.Kind {
	case AddrNone, AddrCurrent:
		return ctx.CursorLine, nil
	case AddrLine:
		return a.Line, nil
	case AddrLast:
		return ctx.LineCount, nil
	case AddrMark:
		if ctx.MarkLine == nil {
			return 0, fmt.Errorf("%w: %c", ErrMarkNotSet, a.Mark)
		}
		line, ok := ctx.MarkLine(a.Mark)
		if !ok {
			return 0, fmt.Errorf("%w: %c", ErrMarkNotSet, a.Mark)
		}
		return line, nil
	case AddrPattern:
		if ctx.FindPattern == nil {
			return 0, fmt.Errorf("%w: %s", ErrNoMatch, a.Pattern)
		}
		line, ok := ctx.FindPattern(a.Pattern)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrNoMatch, a.Pattern)
		}
		return line, nil
	default:
		return 0, fmt.Errorf("unknown address kind %d", a.Kind)
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
