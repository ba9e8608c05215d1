package buffer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromString(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLines int
	}{
		{"empty", "", 0},
		{"single line no newline", "hello", 1},
		{"single line with newline", "hello\n", 1},
		{"three lines", "a\nb\nc\n", 3},
		{"trailing blank line", "a\n\n", 2},
		{"crlf normalized", "a\r\nb\r\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := FromString(tt.content)
			if got := b.LineCount(); got != tt.wantLines {
				t.Errorf("LineCount() = %d, want %d", got, tt.wantLines)
			}
		})
	}
}

func TestContentRoundTrip(t *testing.T) {
	content := "3\n1\n4\n1\n5\n9\n2\n6\n"
	b := FromString(content)
	if got := b.Content(); got != content {
		t.Errorf("Content() = %q, want %q", got, content)
	}
}

func TestContentEmpty(t *testing.T) {
	b := New()
	if got := b.Content(); got != "" {
		t.Errorf("Content() = %q, want empty", got)
	}
}

func TestInsertLines(t *testing.T) {
	tests := []struct {
		name  string
		start []string
		at    int
		ins   []string
		want  []string
	}{
		{"append to empty", nil, 1, []string{"x"}, []string{"x"}},
		{"before first", []string{"b"}, 1, []string{"a"}, []string{"a", "b"}},
		{"after last", []string{"a"}, 2, []string{"b"}, []string{"a", "b"}},
		{"middle", []string{"a", "c"}, 2, []string{"b"}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(WithLines(tt.start))
			if err := b.InsertLines(tt.at, tt.ins); err != nil {
				t.Fatalf("InsertLines: %v", err)
			}
			got := b.AllLines()
			if len(got) != len(tt.want) {
				t.Fatalf("lines = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i+1, got[i], tt.want[i])
				}
			}
			if !b.Dirty() {
				t.Error("expected dirty after insert")
			}
		})
	}
}

func TestInsertLinesOutOfRange(t *testing.T) {
	b := New(WithLines([]string{"a"}))
	if err := b.InsertLines(3, []string{"x"}); err == nil {
		t.Error("expected error inserting past end+1")
	}
}

func TestDeleteLines(t *testing.T) {
	b := New(WithLines([]string{"a", "b", "c", "d"}))
	removed, err := b.DeleteLines(2, 3)
	if err != nil {
		t.Fatalf("DeleteLines: %v", err)
	}
	if len(removed) != 2 || removed[0] != "b" || removed[1] != "c" {
		t.Errorf("removed = %v, want [b c]", removed)
	}
	if b.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", b.LineCount())
	}
	if cur := b.Cursor(); cur.Line != 2 {
		t.Errorf("cursor line = %d, want 2", cur.Line)
	}
}

func TestDeleteAllLinesClampsCursor(t *testing.T) {
	b := New(WithLines([]string{"only"}))
	if _, err := b.DeleteLines(1, 1); err != nil {
		t.Fatalf("DeleteLines: %v", err)
	}
	if cur := b.Cursor(); cur.Line != 1 {
		t.Errorf("cursor line = %d, want 1 in empty buffer", cur.Line)
	}
}

func TestReplaceLines(t *testing.T) {
	b := New(WithLines([]string{"a", "b", "c"}))
	if err := b.ReplaceLines(2, 3, []string{"x"}); err != nil {
		t.Fatalf("ReplaceLines: %v", err)
	}
	want := []string{"a", "x"}
	got := b.AllLines()
	if len(got) != len(want) || got[0] != "a" || got[1] != "x" {
		t.Errorf("lines = %v, want %v", got, want)
	}
}

func TestSplitLine(t *testing.T) {
	b := New(WithLines([]string{"hello world"}))
	if err := b.SplitLine(1, 5); err != nil {
		t.Fatalf("SplitLine: %v", err)
	}
	got := b.AllLines()
	if got[0] != "hello" || got[1] != " world" {
		t.Errorf("lines = %v, want [hello,  world]", got)
	}
	if cur := b.Cursor(); cur.Line != 2 || cur.Col != 0 {
		t.Errorf("cursor = %+v, want line 2 col 0", cur)
	}
}

func TestJoinWithPrevious(t *testing.T) {
	b := New(WithLines([]string{"foo", "bar"}))
	if err := b.JoinWithPrevious(2); err != nil {
		t.Fatalf("JoinWithPrevious: %v", err)
	}
	if got := b.AllLines(); len(got) != 1 || got[0] != "foobar" {
		t.Errorf("lines = %v, want [foobar]", got)
	}
	if cur := b.Cursor(); cur.Line != 1 || cur.Col != 3 {
		t.Errorf("cursor = %+v, want line 1 col 3", cur)
	}
}

func TestSetCursorClamping(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		line     int
		col      int
		wantLine int
		wantCol  int
	}{
		{"within range", []string{"abc", "de"}, 2, 1, 2, 1},
		{"line past end", []string{"abc"}, 9, 0, 1, 0},
		{"line below one", []string{"abc"}, 0, 0, 1, 0},
		{"col past end", []string{"abc"}, 1, 9, 1, 3},
		{"empty buffer", nil, 5, 5, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(WithLines(tt.lines))
			b.SetCursor(tt.line, tt.col)
			cur := b.Cursor()
			if cur.Line != tt.wantLine || cur.Col != tt.wantCol {
				t.Errorf("cursor = %+v, want line %d col %d", cur, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestFromFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")
	b, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if b.LineCount() != 0 {
		t.Errorf("LineCount() = %d, want 0", b.LineCount())
	}
	if b.Path() != path {
		t.Errorf("Path() = %q, want %q", b.Path(), path)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	b := New(WithPath(path))
	if err := b.InsertLines(1, []string{"apple", "banana"}); err != nil {
		t.Fatalf("InsertLines: %v", err)
	}
	if err := b.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if b.Dirty() {
		t.Error("expected clean after save")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "apple\nbanana\n" {
		t.Errorf("file = %q, want %q", data, "apple\nbanana\n")
	}
}

func TestSaveWithoutPath(t *testing.T) {
	b := New()
	if err := b.Save(); err == nil {
		t.Error("expected error saving unnamed buffer")
	}
}
