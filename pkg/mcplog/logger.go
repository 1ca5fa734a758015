// Package mcplog writes one JSONL record per MCP tool call so usage of the
// uilint tools can be audited after the fact.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// Entry is one JSONL line.
type Entry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	TokensEst     int            `json:"tokens_est"`
	ToolError     bool           `json:"tool_error,omitempty"`
	Error         *string        `json:"error"`
}

// NewEntry records a finished call that started at start. ToolError is set
// when the tool answered with an error result rather than failing outright.
func NewEntry(tool string, args map[string]any, start time.Time, result *mcp.CallToolResult, err error) Entry {
	rb := ResponseBytes(result)
	e := Entry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          tool,
		Params:        SanitizeParams(args),
		DurationMs:    Now().Sub(start).Milliseconds(),
		ResponseBytes: rb,
		TokensEst:     rb / 4,
		ToolError:     result != nil && result.IsError,
	}
	if err != nil {
		msg := err.Error()
		e.Error = &msg
	}
	return e
}

// Logger appends entries to a file. Safe for concurrent use. A nil *Logger
// discards everything.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens path for appending, creating parent directories. An empty
// path returns a nil Logger and no error.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one entry. Callers usually ignore the error so logging never
// changes a tool result.
func (l *Logger) Write(entry Entry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// MaxLoggedString is the longest string argument logged verbatim.
const MaxLoggedString = 64

// SanitizeParams copies args for logging. Strings longer than
// MaxLoggedString, such as code snippets and guide text, are replaced by a
// "<key>_len" entry holding their length.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > MaxLoggedString {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// ResponseBytes is the JSON size of a result's content, or 0 for nil.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is the clock used for durations; tests replace it.
var Now = time.Now
