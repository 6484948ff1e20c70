package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/klauern/railguard/internal/config"
)

// LogEntry is one structured record of an evaluation step.
type LogEntry struct {
	Timestamp    string                 `json:"timestamp"`
	EvaluationID string                 `json:"evaluation_id"`
	Event        string                 `json:"event"`
	Step         string                 `json:"step"`
	ToolName     string                 `json:"tool_name,omitempty"`
	Group        string                 `json:"group,omitempty"`
	RawData      map[string]interface{} `json:"raw_data,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// EventLogger writes LogEntry records as JSON lines or indented JSON. A nil
// *EventLogger discards everything.
type EventLogger struct {
	mu     sync.Mutex
	w      io.Writer
	format string
	now    func() time.Time
}

// NewEventLogger creates a logger writing to w in the given format.
func NewEventLogger(w io.Writer, format string) *EventLogger {
	if !config.IsValidLoggingFormat(format) {
		format = config.LoggingFormatJSONL
	}
	return &EventLogger{w: w, format: format, now: time.Now}
}

// Log writes the entry, stamping the time if unset.
func (l *EventLogger) Log(entry LogEntry) {
	if l == nil || l.w == nil {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = l.now().Format(time.RFC3339)
	}

	var data []byte
	var err error
	if l.format == config.LoggingFormatPretty {
		data, err = json.MarshalIndent(entry, "", "  ")
	} else {
		data, err = json.Marshal(entry)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal log entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(append(data, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write to log file: %v\n", err)
	}
}

func (e *Engine) logStep(ec *EvaluationContext, step, group string, details map[string]interface{}) {
	e.logger.Log(LogEntry{
		EvaluationID: ec.ID,
		Event:        string(ec.Event),
		Step:         step,
		ToolName:     ec.ToolName,
		Group:        group,
		Details:      details,
	})
}
