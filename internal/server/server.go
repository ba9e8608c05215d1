// Package server runs tool calls over a line-delimited JSON transport.
// Each request line names a tool with raw JSON arguments; each response
// line carries the tool result back under the request's id.
package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/vimkit/internal/log"
	"github.com/dshills/vimkit/internal/tool"
)

// maxLine bounds one request line; command batches are text, not file
// payloads, so this is generous.
const maxLine = 10 * 1024 * 1024

// Request is one tool call.
type Request struct {
	// ID is echoed back on the response, opaque to the server.
	ID json.RawMessage `json:"id,omitempty"`

	// Tool is the tool name, or "list_tools" for discovery.
	Tool string `json:"tool"`

	// Args is the tool's argument object.
	Args json.RawMessage `json:"args,omitempty"`
}

// Response is the outcome of one request.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result tool.Result     `json:"result"`
}

// Server dispatches requests against a tool registry.
type Server struct {
	reg    *tool.Registry
	logger *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server over reg.
func New(reg *tool.Registry, opts ...Option) *Server {
	s := &Server{reg: reg, logger: log.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve reads request lines from r until EOF or context cancellation,
// writing one response line per request to w. Malformed requests get
// an error response rather than terminating the stream.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("malformed request: %v", err)
			if err := enc.Encode(Response{Result: tool.ErrorResult(fmt.Sprintf("Invalid request: %v", err))}); err != nil {
				return err
			}
			continue
		}

		var res tool.Result
		switch req.Tool {
		case "":
			res = tool.ErrorResult("Invalid request: missing tool name")
		case "list_tools":
			res = s.listTools()
		default:
			s.logger.Debug("dispatch %s", req.Tool)
			res = s.reg.Dispatch(ctx, req.Tool, req.Args)
		}
		if err := enc.Encode(Response{ID: req.ID, Result: res}); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// listTools renders the registered tools one per line.
func (s *Server) listTools() tool.Result {
	var sb strings.Builder
	for i, t := range s.reg.List() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(t.Name)
		if t.Description != "" {
			sb.WriteString(" - ")
			sb.WriteString(t.Description)
		}
	}
	return tool.TextResult(sb.String())
}
