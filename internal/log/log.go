// Package log provides the leveled, field-carrying logger used by the
// command interpreter. Output is plain lines on a writer, safe for
// concurrent use.
package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

// Level is the severity of a message.
type Level int

const (
	// LevelDebug is detailed tracing of command execution.
	LevelDebug Level = iota
	// LevelInfo is normal operational messages.
	LevelInfo
	// LevelWarn is recoverable problems, such as failed commands.
	LevelWarn
	// LevelError is failures that need attention.
	LevelError
)

// String returns the level's log tag.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled log lines. The zero value is not usable; use
// New or Discard.
type Logger struct {
	mu     sync.Mutex
	level  Level
	out    io.Writer
	fields map[string]any
}

// New creates a logger writing at or above level to out. A nil out
// defaults to stderr.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{level: level, out: out, fields: map[string]any{}}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(LevelError+1, io.Discard)
}

// With returns a logger carrying an extra field on every line.
func (l *Logger) With(key string, value any) *Logger {
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{level: l.level, out: l.out, fields: fields}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...any) {
	if level < l.level {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	line := fmt.Sprintf("%s [%s] %s", time.Now().Format("2006-01-02T15:04:05.000"), level, msg)
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		line += " {"
		for i, k := range keys {
			if i > 0 {
				line += ", "
			}
			line += fmt.Sprintf("%s=%v", k, l.fields[k])
		}
		line += "}"
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write([]byte(line + "\n"))
}
