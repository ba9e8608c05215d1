package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/vimkit/internal/interp/exec"
	"github.com/dshills/vimkit/internal/session"
)

func newTestRegistry(t *testing.T) (*Registry, *session.Session) {
	t.Helper()
	sess, err := session.New()
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })
	reg := NewRegistry()
	if err := NewSuite(sess, exec.New(sess)).Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return reg, sess
}

func dispatch(t *testing.T, reg *Registry, name string, args any) Result {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return reg.Dispatch(context.Background(), name, raw)
}

func resultText(t *testing.T, res Result) string {
	t.Helper()
	if len(res.Content) != 1 || res.Content[0].Type != "text" {
		t.Fatalf("content = %+v, want one text block", res.Content)
	}
	return res.Content[0].Text
}

func TestUnknownTool(t *testing.T) {
	reg, _ := newTestRegistry(t)
	res := reg.Dispatch(context.Background(), "vim_bogus", nil)
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if got := resultText(t, res); got != "Unknown tool: vim_bogus" {
		t.Errorf("text = %q", got)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg, _ := newTestRegistry(t)
	err := reg.Register(Tool{Name: "vim_edit", Handler: func(context.Context, json.RawMessage) Result { return Result{} }})
	if err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestEditToolWritesFile(t *testing.T) {
	reg, _ := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")

	res := dispatch(t, reg, "vim_edit", map[string]any{
		"file_path": path,
		"commands": []string{"i", "apple", "banana", "orange", "\x1b", ":w"},
	})
	if res.IsError {
		t.Fatalf("unexpected error: %v", res.Content)
	}
	if got := resultText(t, res); !strings.HasPrefix(got, "Executed 6 command(s)") {
		t.Errorf("text = %q", got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got, want := string(data), "apple\nbanana\norange\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestEditToolAcceptsStringCommands(t *testing.T) {
	reg, _ := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")

	res := dispatch(t, reg, "vim_edit", map[string]any{
		"file_path": path,
		"commands": "i\nhello\n\x1b\n:w",
	})
	if res.IsError {
		t.Fatalf("unexpected error: %v", res.Content)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got, want := string(data), "hello\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestEditToolReportsDiagnostics(t *testing.T) {
	reg, _ := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := dispatch(t, reg, "vim_edit", map[string]any{
		"file_path": path,
		"commands": []string{"gg", ":frobnicate", "dd"},
	})
	if res.IsError {
		t.Fatal("batch with a bad command is not a call-level error")
	}
	text := resultText(t, res)
	if !strings.HasPrefix(text, "Executed 2 command(s)") || !strings.Contains(text, "frobnicate") {
		t.Errorf("text = %q", text)
	}
}

func TestEditToolAllCommandsFailing(t *testing.T) {
	reg, _ := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")

	res := dispatch(t, reg, "vim_edit", map[string]any{
		"file_path": path,
		"commands":  []string{":bogus", ":alsobogus"},
	})
	if !res.IsError {
		t.Fatal("a batch where nothing executed should be an error result")
	}
	if got := resultText(t, res); !strings.HasPrefix(got, "Executed 0 command(s)") {
		t.Errorf("text = %q", got)
	}
}

func TestEditToolValidation(t *testing.T) {
	reg, _ := newTestRegistry(t)
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing path", map[string]any{"commands": []string{"dd"}}, "file_path is required"},
		{"missing commands", map[string]any{"file_path": "/tmp/x"}, "commands is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := dispatch(t, reg, "vim_edit", tt.args)
			if !res.IsError {
				t.Fatal("expected error result")
			}
			if got := resultText(t, res); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEditToolCommandLimit(t *testing.T) {
	sess, err := session.New()
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })
	reg := NewRegistry()
	if err := NewSuite(sess, exec.New(sess), WithMaxCommands(2)).Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	res := dispatch(t, reg, "vim_edit", map[string]any{
		"file_path": filepath.Join(t.TempDir(), "x.txt"),
		"commands": []string{"i", "a", "\x1b"},
	})
	if !res.IsError || !strings.Contains(resultText(t, res), "Too many commands") {
		t.Errorf("result = %+v, want command-limit error", res)
	}
}

func TestBufferListEmpty(t *testing.T) {
	reg, _ := newTestRegistry(t)
	res := dispatch(t, reg, "vim_buffer_list", map[string]any{})
	if got := resultText(t, res); got != "No buffers open" {
		t.Errorf("text = %q", got)
	}
}

func TestBufferListShowsState(t *testing.T) {
	reg, _ := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("abc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	dispatch(t, reg, "vim_edit", map[string]any{"file_path": path, "commands": []string{"x"}})
	text := resultText(t, dispatch(t, reg, "vim_buffer_list", map[string]any{}))
	want := fmt.Sprintf("%%+ %s", path)
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestShowRegisters(t *testing.T) {
	reg, _ := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	empty := resultText(t, dispatch(t, reg, "vim_show_registers", map[string]any{}))
	if empty != "No registers set" {
		t.Errorf("text = %q", empty)
	}

	dispatch(t, reg, "vim_edit", map[string]any{"file_path": path, "commands": []string{"yy"}})
	text := resultText(t, dispatch(t, reg, "vim_show_registers", map[string]any{}))
	if !strings.Contains(text, `"0  one`) || !strings.Contains(text, `""  one`) {
		t.Errorf("text = %q, want unnamed and yank registers", text)
	}
}

func TestShowMarks(t *testing.T) {
	reg, _ := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	empty := resultText(t, dispatch(t, reg, "vim_show_marks", map[string]any{}))
	if empty != "No marks set" {
		t.Errorf("text = %q", empty)
	}

	dispatch(t, reg, "vim_edit", map[string]any{"file_path": path, "commands": []string{"2G", "ma"}})
	text := resultText(t, dispatch(t, reg, "vim_show_marks", map[string]any{}))
	want := fmt.Sprintf("'a  line 2  %s", path)
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}
