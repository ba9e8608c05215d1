package vim

import (
	"errors"
	"fmt"
)

// Parse errors.
var (
	// ErrInvalid marks a token the normal-mode grammar does not cover.
	ErrInvalid = errors.New("invalid command")

	// ErrIncomplete marks a token that ends mid-command (e.g., "d", `"a`).
	ErrIncomplete = errors.New("incomplete command")
)

// Parse parses one normal-mode token into a Command.
func Parse(token string) (*Command, error) {
	p := &parser{runes: []rune(token)}
	cmd, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("%q: %w", token, err)
	}
	return cmd, nil
}

// parser scans one token left to right.
type parser struct {
	runes []rune
	pos   int
}

func (p *parser) done() bool {
	return p.pos >= len(p.runes)
}

func (p *parser) peek() rune {
	return p.runes[p.pos]
}

func (p *parser) next() rune {
	r := p.runes[p.pos]
	p.pos++
	return r
}

// parseCount consumes a count prefix. A leading '0' is not a count; it is
// the line-start motion.
func (p *parser) parseCount() int {
	if p.done() || p.peek() < '1' || p.peek() > '9' {
		return 0
	}
	count := 0
	for !p.done() && p.peek() >= '0' && p.peek() <= '9' {
		count = count*10 + int(p.next()-'0')
	}
	return count
}

// parseRegister consumes a "x register prefix.
func (p *parser) parseRegister() (rune, error) {
	if p.done() || p.peek() != '"' {
		return 0, nil
	}
	p.next()
	if p.done() {
		return 0, ErrIncomplete
	}
	name := p.next()
	if !isRegisterName(name) {
		return 0, fmt.Errorf("%w: bad register %q", ErrInvalid, string(name))
	}
	return name, nil
}

func isRegisterName(r rune) bool {
	switch {
	case r == '"':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	default:
		return false
	}
}

func isMarkName(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// parseMotion consumes a motion: a single motion key, "gg", or "'x".
func (p *parser) parseMotion() (*Motion, rune, error) {
	if p.done() {
		return nil, 0, ErrIncomplete
	}
	r := p.next()
	switch {
	case r == 'g':
		if p.done() {
			return nil, 0, ErrIncomplete
		}
		if p.next() != 'g' {
			return nil, 0, fmt.Errorf("%w: unknown g command", ErrInvalid)
		}
		return &MotionDocumentStart, 0, nil
	case r == '\'':
		if p.done() {
			return nil, 0, ErrIncomplete
		}
		name := p.next()
		if !isMarkName(name) {
			return nil, 0, fmt.Errorf("%w: bad mark %q", ErrInvalid, string(name))
		}
		return &MotionMark, name, nil
	default:
		if m := GetMotion(r); m != nil {
			return m, 0, nil
		}
		return nil, 0, fmt.Errorf("%w: %q is not a motion", ErrInvalid, string(r))
	}
}

func (p *parser) parse() (*Command, error) {
	count1 := p.parseCount()

	reg, err := p.parseRegister()
	if err != nil {
		return nil, err
	}
	if reg != 0 && count1 == 0 {
		// Count may also follow the register prefix ("a3yy).
		count1 = p.parseCount()
	}

	if p.done() {
		return nil, ErrIncomplete
	}

	cmd := &Command{Count: count1, Register: reg}

	switch r := p.peek(); {
	case entryFor(r) != EntryNone:
		if reg != 0 {
			return nil, fmt.Errorf("%w: register prefix on insert command", ErrInvalid)
		}
		p.next()
		cmd.Kind = KindEnterInsert
		cmd.Entry = entryFor(r)

	case r == 'm':
		p.next()
		if p.done() {
			return nil, ErrIncomplete
		}
		name := p.next()
		if !isMarkName(name) {
			return nil, fmt.Errorf("%w: bad mark %q", ErrInvalid, string(name))
		}
		cmd.Kind = KindSetMark
		cmd.Mark = name

	case r == 'p':
		p.next()
		cmd.Kind = KindPut

	case r == 'P':
		p.next()
		cmd.Kind = KindPutBefore

	case r == 'x':
		p.next()
		cmd.Kind = KindDeleteChar

	case IsOperator(r):
		op := GetOperator(p.next())
		count2 := p.parseCount()
		cmd.Count = combineCounts(count1, count2)
		cmd.Operator = op
		cmd.Kind = KindOperator

		if p.done() {
			return nil, ErrIncomplete
		}
		if p.peek() == op.Key {
			p.next()
			cmd.Linewise = true
			break
		}
		motion, mark, err := p.parseMotion()
		if err != nil {
			return nil, err
		}
		cmd.Motion = motion
		cmd.Mark = mark

	default:
		motion, mark, err := p.parseMotion()
		if err != nil {
			return nil, err
		}
		cmd.Kind = KindMotion
		cmd.Motion = motion
		cmd.Mark = mark
	}

	if !p.done() {
		return nil, fmt.Errorf("%w: trailing input %q", ErrInvalid, string(p.runes[p.pos:]))
	}
	return cmd, nil
}

// entryFor maps insert-entry verbs.
func entryFor(r rune) Entry {
	switch r {
	case 'i':
		return EntryBefore
	case 'a':
		return EntryAfter
	case 'I':
		return EntryLineStart
	case 'A':
		return EntryLineEnd
	case 'o':
		return EntryOpenBelow
	case 'O':
		return EntryOpenAbove
	default:
		return EntryNone
	}
}

// combineCounts multiplies pre- and post-operator counts, keeping 0 when
// neither was given so callers can tell "no count" from "count 1".
func combineCounts(count1, count2 int) int {
	if count1 == 0 && count2 == 0 {
		return 0
	}
	if count1 == 0 {
		count1 = 1
	}
	if count2 == 0 {
		count2 = 1
	}
	return count1 * count2
}
