// Package mark implements named line bookmarks for a session.
//
// A mark ties a letter a-z to a line in one buffer. Marks track the logical
// line they were set on: edits elsewhere in the buffer renumber them so they
// keep pointing at the same text. A mark whose own line is deleted
// re-anchors to the line that slid into its slot (clamped to the new last
// line); emptying the buffer removes it.
package mark

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrInvalidName is returned for mark names outside a-z.
var ErrInvalidName = errors.New("invalid mark name")

// Mark is one named position.
type Mark struct {
	// Name is the mark letter, a-z.
	Name rune

	// Path is the file path of the buffer the mark lives in.
	Path string

	// Line is the 1-based line number.
	Line int
}

// Store manages the marks of a session.
type Store struct {
	mu    sync.RWMutex
	marks map[rune]*Mark
}

// NewStore creates an empty mark store.
func NewStore() *Store {
	return &Store{marks: make(map[rune]*Mark)}
}

// IsValid reports whether name is a usable mark letter.
func IsValid(name rune) bool {
	return name >= 'a' && name <= 'z'
}

// Set places mark name at (path, line), replacing any previous position.
func (s *Store) Set(name rune, path string, line int) error {
	if !IsValid(name) {
		return fmt.Errorf("%w: %c", ErrInvalidName, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[name] = &Mark{Name: name, Path: path, Line: line}
	return nil
}

// Get returns the mark for name.
func (s *Store) Get(name rune) (Mark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.marks[name]
	if !ok {
		return Mark{}, false
	}
	return *m, true
}

// Resolve returns the line of mark name if it is set in the buffer at path.
func (s *Store) Resolve(name rune, path string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.marks[name]
	if !ok || m.Path != path {
		return 0, false
	}
	return m.Line, true
}

// AdjustInsert renumbers marks in path after n lines were inserted with the
// first new line at position at: marks at or below at move down by n.
func (s *Store) AdjustInsert(path string, at, n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.marks {
		if m.Path == path && m.Line >= at {
			m.Line += n
		}
	}
}

// AdjustDelete renumbers marks in path after the inclusive span
// [start, end] was deleted, with remaining lines left in the buffer.
// Marks above the span are unchanged, marks below move up by the span
// length, and marks inside it re-anchor to start clamped to the new last
// line. When the buffer is emptied, marks inside the span are removed.
func (s *Store) AdjustDelete(path string, start, end, remaining int) {
	n := end - start + 1
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, m := range s.marks {
		if m.Path != path {
			continue
		}
		switch {
		case m.Line < start:
			// Unchanged.
		case m.Line > end:
			m.Line -= n
		default:
			if remaining == 0 {
				delete(s.marks, name)
				continue
			}
			m.Line = start
			if m.Line > remaining {
				m.Line = remaining
			}
		}
	}
}

// AdjustReplace renumbers marks after the span [start, end] was replaced by
// newCount lines, with remaining lines left in the buffer afterward. Marks
// below the span shift by the net length change; marks inside it re-anchor
// to the first replacement line.
func (s *Store) AdjustReplace(path string, start, end, newCount, remaining int) {
	delta := newCount - (end - start + 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, m := range s.marks {
		if m.Path != path {
			continue
		}
		switch {
		case m.Line < start:
			// Unchanged.
		case m.Line > end:
			m.Line += delta
		default:
			if remaining == 0 {
				delete(s.marks, name)
				continue
			}
			m.Line = start
			if m.Line > remaining {
				m.Line = remaining
			}
		}
	}
}

// DropBuffer removes every mark set in the buffer at path.
func (s *Store) DropBuffer(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, m := range s.marks {
		if m.Path == path {
			delete(s.marks, name)
		}
	}
}

// Snapshot returns every mark, ordered by name.
func (s *Store) Snapshot() []Mark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Mark, 0, len(s.marks))
	for _, m := range s.marks {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
