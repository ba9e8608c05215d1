package buffer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ErrNotOpen is returned when an operation targets a path with no buffer.
var ErrNotOpen = errors.New("buffer not open")

// Info describes one open buffer for listing.
type Info struct {
	// Path is the buffer's file path.
	Path string

	// Dirty reports unsaved in-memory modifications.
	Dirty bool

	// Stale reports that the backing file changed on disk after open.
	Stale bool
}

// Store owns the open buffers of a session, keyed by cleaned file path.
//
// The store serializes its own bookkeeping; buffers themselves are mutated
// only by the single interpreter goroutine that owns the session.
type Store struct {
	mu       sync.RWMutex
	buffers  map[string]*Buffer
	stale    map[string]bool
	lastSave map[string]time.Time
	watcher  *Watcher
	backup   bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithWatcher attaches a file watcher; buffers whose backing file changes on
// disk are flagged stale in List.
func WithWatcher(w *Watcher) StoreOption {
	return func(s *Store) {
		s.watcher = w
	}
}

// WithBackup enables writing a path~ backup before each save.
func WithBackup(enabled bool) StoreOption {
	return func(s *Store) {
		s.backup = enabled
	}
}

// NewStore creates an empty buffer store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		buffers:  make(map[string]*Buffer),
		stale:    make(map[string]bool),
		lastSave: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.watcher != nil {
		s.watcher.OnChange(s.markStale)
	}
	return s
}

// markStale records an external modification, unless it is the echo of our
// own recent save.
func (s *Store) markStale(path string) {
	key := filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buffers[key]; !ok {
		return
	}
	if saved, ok := s.lastSave[key]; ok && time.Since(saved) < time.Second {
		return
	}
	s.stale[key] = true
}

// Open returns the buffer for path, loading it from disk (or creating an
// empty buffer for a nonexistent file) on first use.
func (s *Store) Open(path string) (*Buffer, error) {
	key := filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buffers[key]; ok {
		return b, nil
	}

	b, err := FromFile(key)
	if err != nil {
		return nil, err
	}
	s.buffers[key] = b
	if s.watcher != nil {
		// Watch the directory so creates of not-yet-existing files are seen.
		_ = s.watcher.Watch(filepath.Dir(key))
	}
	return b, nil
}

// Get returns the buffer for path if it is open.
func (s *Store) Get(path string) (*Buffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buffers[filepath.Clean(path)]
	return b, ok
}

// Save writes the buffer for path to disk.
func (s *Store) Save(path string) error {
	key := filepath.Clean(path)

	s.mu.Lock()
	b, ok := s.buffers[key]
	backup := s.backup
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotOpen, path)
	}

	if backup {
		if data, err := os.ReadFile(key); err == nil {
			if err := os.WriteFile(key+"~", data, 0o644); err != nil {
				return fmt.Errorf("writing backup for %s: %w", key, err)
			}
		}
	}

	if err := b.Save(); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastSave[key] = time.Now()
	delete(s.stale, key)
	s.mu.Unlock()
	return nil
}

// Close removes the buffer for path. A dirty buffer is left open unless
// force is set; the bool result reports whether the buffer was closed.
func (s *Store) Close(path string, force bool) (bool, error) {
	key := filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buffers[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotOpen, path)
	}
	if b.Dirty() && !force {
		return false, nil
	}
	delete(s.buffers, key)
	delete(s.stale, key)
	delete(s.lastSave, key)
	return true, nil
}

// List returns info for every open buffer, ordered by path.
func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.buffers))
	for key, b := range s.buffers {
		infos = append(infos, Info{Path: key, Dirty: b.Dirty(), Stale: s.stale[key]})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos
}

// Len returns the number of open buffers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffers)
}
