package buffer

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports file modifications for paths the store cares about.
// It wraps fsnotify and fans events out to registered callbacks.
type Watcher struct {
	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	watched   map[string]bool
	callbacks []func(path string)
	done      chan struct{}
}

// NewWatcher creates and starts a watcher.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		watched: make(map[string]bool),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// OnChange registers a callback invoked with the path of each written or
// created file under a watched directory.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Watch adds a directory (or file) to the watch set. Adding the same path
// twice is a no-op.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watched[path] {
		return nil
	}
	if err := w.fsw.Add(path); err != nil {
		return err
	}
	w.watched[path] = true
	return nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.mu.Lock()
			callbacks := append([]func(string){}, w.callbacks...)
			w.mu.Unlock()
			for _, fn := range callbacks {
				fn(event.Name)
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; a missed event at worst leaves
			// a stale flag unset.
		}
	}
}
