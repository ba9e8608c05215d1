package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/vimkit/internal/interp/exec"
	"github.com/dshills/vimkit/internal/session"
)

// Suite binds the editing tools to one session.
type Suite struct {
	sess        *session.Session
	exec        *exec.Executor
	maxCommands int
}

// SuiteOption configures a Suite.
type SuiteOption func(*Suite)

// WithMaxCommands caps the batch size of one vim_edit call.
func WithMaxCommands(n int) SuiteOption {
	return func(s *Suite) {
		if n > 0 {
			s.maxCommands = n
		}
	}
}

// NewSuite creates the tool suite for sess, running commands through ex.
func NewSuite(sess *session.Session, ex *exec.Executor, opts ...SuiteOption) *Suite {
	s := &Suite{sess: sess, exec: ex}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds the editing tools to reg.
func (s *Suite) Register(reg *Registry) error {
	tools := []Tool{
		{
			Name:        "vim_edit",
			Description: "Edit a file with vim-style commands. Opens the file, applies the commands in order, and reports how many succeeded.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"file_path": map[string]any{
						"type":        "string",
						"description": "File path to edit",
					},
					"commands": map[string]any{
						"description": "Commands to apply: an array of tokens, or a newline-separated string",
						"anyOf": []any{
							map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							map[string]any{"type": "string"},
						},
					},
				},
				"required": []any{"file_path", "commands"},
			},
			Handler: s.handleEdit,
		},
		{
			Name:        "vim_buffer_list",
			Description: "List open buffers with their modified and stale state.",
			InputSchema: emptyObjectSchema(),
			Handler:     s.handleBufferList,
		},
		{
			Name:        "vim_show_registers",
			Description: "Show the non-empty registers of the session.",
			InputSchema: emptyObjectSchema(),
			Handler:     s.handleShowRegisters,
		},
		{
			Name:        "vim_show_marks",
			Description: "Show the marks of the session.",
			InputSchema: emptyObjectSchema(),
			Handler:     s.handleShowMarks,
		},
	}
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func emptyObjectSchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

// commandList accepts either a JSON array of tokens or a single
// newline-separated string, with empty segments discarded.
type commandList []string

func (c *commandList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*c = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("commands must be a string or an array of strings")
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	*c = out
	return nil
}

type editArgs struct {
	FilePath string `json:"file_path"`
	// Path is accepted as an alias for file_path.
	Path     string      `json:"path"`
	Commands commandList `json:"commands"`
}

func (a editArgs) path() string {
	if a.FilePath != "" {
		return a.FilePath
	}
	return a.Path
}

func (s *Suite) handleEdit(ctx context.Context, args json.RawMessage) Result {
	var in editArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return ErrorResult(fmt.Sprintf("Invalid arguments: %v", err))
	}
	if in.path() == "" {
		return ErrorResult("file_path is required")
	}
	if len(in.Commands) == 0 {
		return ErrorResult("commands is required")
	}
	if s.maxCommands > 0 && len(in.Commands) > s.maxCommands {
		return ErrorResult(fmt.Sprintf("Too many commands: %d (limit %d)", len(in.Commands), s.maxCommands))
	}
	res, err := s.exec.Run(ctx, in.path(), in.Commands)
	if err != nil {
		return ErrorResult(err.Error())
	}
	// Partial progress is success; a batch where nothing ran is not.
	if res.Executed == 0 && len(res.Diagnostics) > 0 {
		return ErrorResult(res.Summary())
	}
	return TextResult(res.Summary())
}

func (s *Suite) handleBufferList(_ context.Context, _ json.RawMessage) Result {
	infos := s.sess.Buffers.List()
	if len(infos) == 0 {
		return TextResult("No buffers open")
	}
	current := s.sess.Current()
	var sb strings.Builder
	for i, info := range infos {
		if i > 0 {
			sb.WriteString("\n")
		}
		// Column one flags the current buffer, column two unsaved changes.
		cur, dirty := " ", " "
		if info.Path == current {
			cur = "%"
		}
		if info.Dirty {
			dirty = "+"
		}
		sb.WriteString(cur)
		sb.WriteString(dirty)
		sb.WriteString(" ")
		sb.WriteString(info.Path)
		if info.Stale {
			sb.WriteString(" [changed on disk]")
		}
	}
	return TextResult(sb.String())
}

func (s *Suite) handleShowRegisters(_ context.Context, _ json.RawMessage) Result {
	regs := s.sess.Registers.Snapshot()
	if len(regs) == 0 {
		return TextResult("No registers set")
	}
	var sb strings.Builder
	for i, r := range regs {
		if i > 0 {
			sb.WriteString("\n")
		}
		kind := "c"
		if r.Linewise {
			kind = "l"
		}
		fmt.Fprintf(&sb, "%s  \"%c  %s", kind, r.Name, strings.ReplaceAll(r.Content, "\n", "\\n"))
	}
	return TextResult(sb.String())
}

func (s *Suite) handleShowMarks(_ context.Context, _ json.RawMessage) Result {
	marks := s.sess.Marks.Snapshot()
	if len(marks) == 0 {
		return TextResult("No marks set")
	}
	var sb strings.Builder
	for i, m := range marks {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "'%c  line %d  %s", m.Name, m.Line, m.Path)
	}
	return TextResult(sb.String())
}
