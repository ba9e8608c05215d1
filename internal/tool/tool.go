// Package tool exposes editing operations as named tools with a
// JSON-friendly call surface. Callers dispatch by tool name with raw
// JSON arguments and get back text content blocks.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Text is one text content block of a tool result.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the outcome of one tool call.
type Result struct {
	Content []Text `json:"content"`
	IsError bool   `json:"isError"`
}

// TextResult wraps text in a successful result.
func TextResult(text string) Result {
	return Result{Content: []Text{{Type: "text", Text: text}}}
}

// ErrorResult wraps text in an error result.
func ErrorResult(text string) Result {
	return Result{Content: []Text{{Type: "text", Text: text}}, IsError: true}
}

// Handler executes one tool call.
type Handler func(ctx context.Context, args json.RawMessage) Result

// Tool couples a name and description with its handler and the JSON
// schema of its arguments.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler
}

// Registry holds tools by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a duplicate name is an error.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool has no name")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %s has no handler", t.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Name]; ok {
		return fmt.Errorf("tool %s already registered", t.Name)
	}
	r.tools[t.Name] = t
	return nil
}

// Dispatch runs the named tool. An unknown name yields an error result
// rather than a Go error so callers can relay it verbatim.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) Result {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return ErrorResult(fmt.Sprintf("Unknown tool: %s", name))
	}
	return t.Handler(ctx, args)
}

// List returns the registered tools ordered by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
