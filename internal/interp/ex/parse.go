package ex

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Parse errors.
var (
	// ErrUnknownVerb marks an ex command outside the supported set.
	ErrUnknownVerb = errors.New("unknown ex command")

	// ErrMissingArg marks a verb lacking a required argument.
	ErrMissingArg = errors.New("missing argument")

	// ErrBadPattern wraps a regular expression that does not compile.
	ErrBadPattern = errors.New("bad pattern")

	// ErrTrailing marks unexpected input after a complete command.
	ErrTrailing = errors.New("trailing characters")
)

// Parse parses one ex command token. A leading ':' is accepted and ignored.
func Parse(input string) (*Command, error) {
	s := strings.TrimPrefix(input, ":")
	p := &exParser{runes: []rune(s)}
	cmd, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("%q: %w", input, err)
	}
	return cmd, nil
}

type exParser struct {
	runes []rune
	pos   int
}

func (p *exParser) done() bool {
	return p.pos >= len(p.runes)
}

func (p *exParser) peek() rune {
	return p.runes[p.pos]
}

func (p *exParser) next() rune {
	r := p.runes[p.pos]
	p.pos++
	return r
}

func (p *exParser) rest() string {
	return string(p.runes[p.pos:])
}

func (p *exParser) skipSpace() {
	for !p.done() && unicode.IsSpace(p.peek()) {
		p.pos++
	}
}

func (p *exParser) parse() (*Command, error) {
	rng, err := p.parseRange()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.done() {
		if rng.IsSet() {
			return &Command{Verb: VerbGoto, Range: rng}, nil
		}
		return nil, ErrUnknownVerb
	}

	switch r := p.peek(); {
	case r == '!':
		p.next()
		arg := strings.TrimSpace(p.rest())
		if arg == "" {
			return nil, fmt.Errorf("%w: shell command", ErrMissingArg)
		}
		return &Command{Verb: VerbFilter, Range: rng, Arg: arg}, nil

	case r == 's' && p.lookaheadDelim():
		p.next()
		return p.parseSubstitute(rng)

	case (r == 'g' || r == 'v') && p.lookaheadDelim():
		invert := p.next() == 'v'
		return p.parseGlobal(rng, invert)
	}

	word := p.parseWord()
	p.skipSpace()

	switch word {
	case "w", "write":
		if !p.done() {
			return nil, fmt.Errorf("%w: %q", ErrTrailing, p.rest())
		}
		return &Command{Verb: VerbWrite, Range: rng}, nil
	case "q", "quit":
		return &Command{Verb: VerbQuit, Range: rng}, nil
	case "q!", "quit!":
		return &Command{Verb: VerbForceQuit, Range: rng}, nil
	case "wq", "x":
		return &Command{Verb: VerbWriteQuit, Range: rng}, nil
	case "e", "edit":
		path := strings.TrimSpace(p.rest())
		if path == "" {
			return nil, fmt.Errorf("%w: file path", ErrMissingArg)
		}
		return &Command{Verb: VerbEdit, Range: rng, Arg: path}, nil
	case "d", "delete":
		cmd := &Command{Verb: VerbDelete, Range: rng}
		cmd.Register = p.parseRegisterArg()
		return cmd, nil
	case "y", "yank":
		cmd := &Command{Verb: VerbYank, Range: rng}
		cmd.Register = p.parseRegisterArg()
		return cmd, nil
	case "pu", "put":
		cmd := &Command{Verb: VerbPut, Range: rng}
		cmd.Register = p.parseRegisterArg()
		return cmd, nil
	case "":
		return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, p.rest())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, word)
	}
}

// lookaheadDelim reports whether the rune after the current one is the
// pattern delimiter, distinguishing :s/x/y from a file named "sub".
func (p *exParser) lookaheadDelim() bool {
	return p.pos+1 < len(p.runes) && p.runes[p.pos+1] == '/'
}

// parseWord consumes a run of letters plus an optional trailing '!'.
func (p *exParser) parseWord() string {
	start := p.pos
	for !p.done() && unicode.IsLetter(p.peek()) {
		p.pos++
	}
	if !p.done() && p.peek() == '!' {
		p.pos++
	}
	return string(p.runes[start:p.pos])
}

// parseRegisterArg consumes an optional register-letter argument.
func (p *exParser) parseRegisterArg() rune {
	p.skipSpace()
	if p.done() {
		return 0
	}
	r := p.peek()
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
		p.next()
		return r
	}
	return 0
}

// parseRange consumes the optional leading range.
func (p *exParser) parseRange() (Range, error) {
	p.skipSpace()
	if p.done() {
		return Range{}, nil
	}
	if p.peek() == '%' {
		p.next()
		return Range{All: true}, nil
	}

	start, err := p.parseAddress()
	if err != nil {
		return Range{}, err
	}
	if start.Kind == AddrNone {
		return Range{}, nil
	}

	rng := Range{Start: start}
	if !p.done() && p.peek() == ',' {
		p.next()
		end, err := p.parseAddress()
		if err != nil {
			return Range{}, err
		}
		if end.Kind == AddrNone {
			end = Address{Kind: AddrCurrent}
		}
		rng.End = end
	}
	return rng, nil
}

// parseAddress consumes one address: N, ., $, 'x, or /pattern/.
func (p *exParser) parseAddress() (Address, error) {
	if p.done() {
		return Address{}, nil
	}
	switch r := p.peek(); {
	case r >= '0' && r <= '9':
		n := 0
		for !p.done() && p.peek() >= '0' && p.peek() <= '9' {
			n = n*10 + int(p.next()-'0')
		}
		return Address{Kind: AddrLine, Line: n}, nil
	case r == '.':
		p.next()
		return Address{Kind: AddrCurrent}, nil
	case r == '$':
		p.next()
		return Address{Kind: AddrLast}, nil
	case r == '\'':
		p.next()
		if p.done() {
			return Address{}, fmt.Errorf("%w: mark name", ErrMissingArg)
		}
		name := p.next()
		if name < 'a' || name > 'z' {
			return Address{}, fmt.Errorf("%w: bad mark %q", ErrUnknownVerb, string(name))
		}
		return Address{Kind: AddrMark, Mark: name}, nil
	case r == '/':
		p.next()
		pat, _ := p.parseDelimited('/')
		if pat == "" {
			return Address{}, fmt.Errorf("%w: pattern", ErrMissingArg)
		}
		re, err := compilePattern(pat, false)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %v", ErrBadPattern, err)
		}
		return Address{Kind: AddrPattern, Pattern: re}, nil
	default:
		return Address{}, nil
	}
}

// parseDelimited consumes text up to an unescaped delim, unescaping only
// the delimiter itself. Reports whether the delimiter terminated the text.
func (p *exParser) parseDelimited(delim rune) (string, bool) {
	var sb strings.Builder
	for !p.done() {
		r := p.next()
		if r == '\\' && !p.done() && p.peek() == delim {
			sb.WriteRune(p.next())
			continue
		}
		if r == delim {
			return sb.String(), true
		}
		sb.WriteRune(r)
	}
	return sb.String(), false
}

// parseSubstitute parses s/pattern/replacement/flags after the 's'.
func (p *exParser) parseSubstitute(rng Range) (*Command, error) {
	delim := p.next() // validated by lookaheadDelim

	pat, closed := p.parseDelimited(delim)
	if pat == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrBadPattern)
	}
	repl := ""
	if closed {
		repl, closed = p.parseDelimited(delim)
	}

	flags := SubstituteFlags{}
	if closed {
		for _, f := range p.rest() {
			switch f {
			case 'g':
				flags.Global = true
			case 'i':
				flags.IgnoreCase = true
			default:
				return nil, fmt.Errorf("%w: substitute flag %q", ErrUnknownVerb, string(f))
			}
		}
	}

	re, err := compilePattern(pat, flags.IgnoreCase)
	if err != nil {
		return nil, err
	}
	return &Command{
		Verb:        VerbSubstitute,
		Range:       rng,
		Pattern:     re,
		Replacement: repl,
		Flags:       flags,
	}, nil
}

// parseGlobal parses g/pattern/command after the 'g' or 'v'.
func (p *exParser) parseGlobal(rng Range, invert bool) (*Command, error) {
	delim := p.next() // validated by lookaheadDelim

	pat, closed := p.parseDelimited(delim)
	if pat == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrBadPattern)
	}
	if !closed || strings.TrimSpace(p.rest()) == "" {
		return nil, fmt.Errorf("%w: global command", ErrMissingArg)
	}

	sub := &exParser{runes: []rune(p.rest())}
	subCmd, err := sub.parse()
	if err != nil {
		return nil, err
	}
	if subCmd.Verb == VerbGlobal {
		return nil, fmt.Errorf("%w: nested global", ErrUnknownVerb)
	}

	re, err := compilePattern(pat, false)
	if err != nil {
		return nil, err
	}
	return &Command{
		Verb:    VerbGlobal,
		Range:   rng,
		Pattern: re,
		Invert:  invert,
		Sub:     subCmd,
	}, nil
}

func compilePattern(pat string, ignoreCase bool) (*regexp.Regexp, error) {
	if ignoreCase {
		pat = "(?i)" + pat
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPattern, err)
	}
	return re, nil
}
