package buffer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreOpenLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	b, err := s.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", b.LineCount())
	}

	// Second open returns the same buffer.
	b2, err := s.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b2 != b {
		t.Error("expected same buffer instance on reopen")
	}
}

func TestStoreOpenMissingFile(t *testing.T) {
	s := NewStore()
	b, err := s.Open(filepath.Join(t.TempDir(), "new.txt"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b.LineCount() != 0 {
		t.Errorf("LineCount() = %d, want 0", b.LineCount())
	}
}

func TestStoreCloseDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	s := NewStore()
	b, err := s.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.InsertLines(1, []string{"x"}); err != nil {
		t.Fatal(err)
	}

	closed, err := s.Close(path, false)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed {
		t.Error("dirty buffer should not close without force")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	closed, err = s.Close(path, true)
	if err != nil {
		t.Fatalf("Close force: %v", err)
	}
	if !closed {
		t.Error("force close should succeed")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStoreDiscardReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("original\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore()
	b, err := s.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetLine(1, "edited"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Close(path, true); err != nil {
		t.Fatal(err)
	}

	// Reopening reloads the on-disk content; edits were discarded.
	b, err = s.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	line, err := b.Line(1)
	if err != nil {
		t.Fatal(err)
	}
	if line != "original" {
		t.Errorf("line 1 = %q, want %q", line, "original")
	}
}

func TestStoreSaveClearsDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	s := NewStore()
	b, err := s.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.InsertLines(1, []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	infos := s.List()
	if len(infos) != 1 {
		t.Fatalf("List() len = %d, want 1", len(infos))
	}
	if infos[0].Dirty {
		t.Error("expected clean buffer after save")
	}
}

func TestStoreSaveBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(WithBackup(true))
	b, err := s.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetLine(1, "new"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	backup, err := os.ReadFile(path + "~")
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if string(backup) != "old\n" {
		t.Errorf("backup = %q, want %q", backup, "old\n")
	}
}

func TestStoreListSorted(t *testing.T) {
	dir := t.TempDir()
	s := NewStore()
	for _, name := range []string{"b.txt", "a.txt"} {
		if _, err := s.Open(filepath.Join(dir, name)); err != nil {
			t.Fatal(err)
		}
	}
	infos := s.List()
	if len(infos) != 2 {
		t.Fatalf("List() len = %d, want 2", len(infos))
	}
	if filepath.Base(infos[0].Path) != "a.txt" {
		t.Errorf("first = %s, want a.txt", infos[0].Path)
	}
}

func TestStoreMarkStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	s := NewStore()
	if _, err := s.Open(path); err != nil {
		t.Fatal(err)
	}

	s.markStale(path)
	infos := s.List()
	if !infos[0].Stale {
		t.Error("expected stale flag after external change")
	}

	// A path with no open buffer is ignored.
	s.markStale(filepath.Join(t.TempDir(), "other.txt"))
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
