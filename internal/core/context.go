package core

import (
	"os"
	"strings"

	"github.com/oklog/ulid/v2"
)

// EvaluationContext is built once per lifecycle event and discarded after
// the event has been dispatched.
type EvaluationContext struct {
	ID        string
	Event     Event
	ToolName  string
	ToolInput ToolInput
	Cwd       string
	SessionID string
	Result    interface{}
	IsError   bool
	Aborted   bool
}

// NewEvaluationContext flattens a lifecycle event. Tool names are lower-cased
// and an empty working directory falls back to the process directory.
func NewEvaluationContext(ev LifecycleEvent) *EvaluationContext {
	ec := &EvaluationContext{
		ID:      ulid.Make().String(),
		Event:   ev.Kind(),
		Cwd:     ev.WorkDir(),
		Aborted: IsAborted(ev),
	}

	switch e := ev.(type) {
	case ToolCallEvent:
		ec.SessionID = e.SessionID
		ec.ToolName = strings.ToLower(e.ToolName)
		ec.ToolInput = e.Input
	case ToolResultEvent:
		ec.SessionID = e.SessionID
		ec.ToolName = strings.ToLower(e.ToolName)
		ec.ToolInput = e.Input
		ec.Result = e.Result
		ec.IsError = e.IsError
	case AgentStartEvent:
		ec.SessionID = e.SessionID
		if e.Prompt != "" {
			ec.ToolInput = ToolInput{"prompt": e.Prompt}
		}
	case SessionStartEvent:
		ec.SessionID = e.SessionID
	case SessionShutdownEvent:
		ec.SessionID = e.SessionID
	case AgentEndEvent:
		ec.SessionID = e.SessionID
	case TurnStartEvent:
		ec.SessionID = e.SessionID
	case TurnEndEvent:
		ec.SessionID = e.SessionID
	}

	if ec.ToolInput == nil {
		ec.ToolInput = ToolInput{}
	}
	if ec.Cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			ec.Cwd = wd
		}
	}
	return ec
}

// FilePath returns the file path carried by the tool input, if any.
func (ec *EvaluationContext) FilePath() string {
	p, _ := ec.ToolInput.FirstString("path", "file_path")
	return p
}
