package buffer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWrites(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer func() { _ = w.Close() }()

	path := filepath.Join(t.TempDir(), "watched.txt")
	if err := os.WriteFile(path, []byte("one\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	changed := make(chan string, 4)
	w.OnChange(func(p string) { changed <- p })
	w.OnChange(func(p string) { changed <- p })

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := os.WriteFile(path, []byte("two\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Both registered callbacks see the same event.
	for i := 0; i < 2; i++ {
		select {
		case got := <-changed:
			if got != path {
				t.Errorf("callback path = %q, want %q", got, path)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for change callback")
		}
	}
}
