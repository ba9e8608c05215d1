// Package register implements the session's yank/delete registers.
//
// The register file holds the unnamed register ", the named registers a-z,
// and the numbered registers 0-9. Register 0 mirrors the last yank and
// registers 1-9 hold rotating delete history, as in vim. Content survives
// buffer closes; it lives as long as the owning session.
package register

import (
	"sync"
	"unicode"
)

// Unnamed is the name of the default register.
const Unnamed = '"'

// Type categorizes registers by their behavior.
type Type uint8

const (
	// TypeUnnamed is the default register (").
	TypeUnnamed Type = iota

	// TypeNamed is a named register (a-z).
	TypeNamed

	// TypeLastYank is register 0, mirroring the most recent yank.
	TypeLastYank

	// TypeNumbered is a rotating delete-history register (1-9).
	TypeNumbered
)

// String returns a string representation of the type.
func (t Type) String() string {
	switch t {
	case TypeUnnamed:
		return "unnamed"
	case TypeNamed:
		return "named"
	case TypeLastYank:
		return "lastYank"
	case TypeNumbered:
		return "numbered"
	default:
		return "unknown"
	}
}

// Register is one storage slot.
type Register struct {
	// Name is the register character.
	Name rune

	// Type categorizes the register.
	Type Type

	// Content holds the register's text, newline-joined for multiple lines.
	Content string

	// Linewise indicates the content is whole lines.
	Linewise bool
}

// Store manages all registers of a session.
type Store struct {
	mu        sync.RWMutex
	registers map[rune]*Register

	// numbered aliases registers 1-9 in rotation order.
	numbered [9]*Register
}

// NewStore creates a register store with every slot empty.
func NewStore() *Store {
	s := &Store{registers: make(map[rune]*Register)}

	s.registers[Unnamed] = &Register{Name: Unnamed, Type: TypeUnnamed}
	for r := 'a'; r <= 'z'; r++ {
		s.registers[r] = &Register{Name: r, Type: TypeNamed}
	}
	s.registers['0'] = &Register{Name: '0', Type: TypeLastYank}
	for i := 1; i <= 9; i++ {
		r := rune('0' + i)
		s.registers[r] = &Register{Name: r, Type: TypeNumbered}
		s.numbered[i-1] = s.registers[r]
	}
	return s
}

// IsValid reports whether name refers to a register this store holds.
// Uppercase letters are valid; they append to their lowercase register.
func IsValid(name rune) bool {
	switch {
	case name == Unnamed:
		return true
	case name >= 'a' && name <= 'z':
		return true
	case name >= 'A' && name <= 'Z':
		return true
	case name >= '0' && name <= '9':
		return true
	default:
		return false
	}
}

// Get returns the content and linewise flag of a register.
// Unknown names read as empty.
func (s *Store) Get(name rune) (string, bool) {
	if unicode.IsUpper(name) {
		name = unicode.ToLower(name)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.registers[name]
	if !ok {
		return "", false
	}
	return reg.Content, reg.Linewise
}

// Set stores content in an explicitly targeted register. The unnamed
// register is left alone; that is the point of targeting. An uppercase
// name appends to the lowercase register instead of replacing.
func (s *Store) Set(name rune, content string, linewise bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appendMode := false
	if unicode.IsUpper(name) {
		name = unicode.ToLower(name)
		appendMode = true
	}

	reg, ok := s.registers[name]
	if !ok {
		return
	}

	if appendMode && reg.Type == TypeNamed && reg.Content != "" {
		if reg.Linewise {
			reg.Content += content
		} else {
			reg.Content += "\n" + content
		}
		return
	}
	reg.Content = content
	reg.Linewise = linewise
}

// SetYank records an untargeted yank: register 0 and the unnamed register.
func (s *Store) SetYank(content string, linewise bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []rune{'0', Unnamed} {
		reg := s.registers[name]
		reg.Content = content
		reg.Linewise = linewise
	}
}

// SetDelete records an untargeted delete: registers 1-9 rotate, the new
// content lands in register 1 and the unnamed register.
func (s *Store) SetDelete(content string, linewise bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 8; i > 0; i-- {
		s.numbered[i].Content = s.numbered[i-1].Content
		s.numbered[i].Linewise = s.numbered[i-1].Linewise
	}
	s.numbered[0].Content = content
	s.numbered[0].Linewise = linewise

	reg := s.registers[Unnamed]
	reg.Content = content
	reg.Linewise = linewise
}

// Snapshot returns a copy of every non-empty register, ordered unnamed
// first, then 0-9, then a-z.
func (s *Store) Snapshot() []Register {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order := []rune{Unnamed, '0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	for r := 'a'; r <= 'z'; r++ {
		order = append(order, r)
	}

	out := make([]Register, 0, len(order))
	for _, name := range order {
		reg := s.registers[name]
		if reg.Content == "" {
			continue
		}
		out = append(out, *reg)
	}
	return out
}
