package core

// ToolInput is the optional-field map of a tool invocation's arguments.
type ToolInput map[string]interface{}

// String returns the field as a string, absent when missing, null or not a
// string.
func (in ToolInput) String(key string) (string, bool) {
	if in == nil {
		return "", false
	}
	v, ok := in[key].(string)
	return v, ok
}

// FirstString returns the first key holding a string value.
func (in ToolInput) FirstString(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := in.String(k); ok {
			return v, true
		}
	}
	return "", false
}

// LifecycleEvent is the closed set of events the engine dispatches.
type LifecycleEvent interface {
	Kind() Event
	WorkDir() string
	lifecycleEvent()
}

// Base carries the fields shared by every lifecycle event.
type Base struct {
	Cwd       string
	SessionID string
}

// WorkDir returns the event's working directory.
func (b Base) WorkDir() string { return b.Cwd }

func (Base) lifecycleEvent() {}

// SessionStartEvent fires when a host session starts.
type SessionStartEvent struct{ Base }

// SessionShutdownEvent fires when a host session ends.
type SessionShutdownEvent struct{ Base }

// ToolCallEvent fires before a tool runs. It is the only blockable event.
type ToolCallEvent struct {
	Base
	ToolName string
	Input    ToolInput
}

// ToolResultEvent fires after a tool completes.
type ToolResultEvent struct {
	Base
	ToolName string
	Input    ToolInput
	Result   interface{}
	IsError  bool
	Aborted  bool
}

// AgentStartEvent fires when the agent starts working on a prompt.
type AgentStartEvent struct {
	Base
	Prompt string
}

// AgentEndEvent fires when the agent finishes responding.
type AgentEndEvent struct {
	Base
	Aborted bool
}

// TurnStartEvent fires at the start of an agent turn.
type TurnStartEvent struct{ Base }

// TurnEndEvent fires at the end of an agent turn.
type TurnEndEvent struct {
	Base
	Aborted bool
}

func (SessionStartEvent) Kind() Event    { return SessionStart }
func (SessionShutdownEvent) Kind() Event { return SessionShutdown }
func (ToolCallEvent) Kind() Event        { return ToolCall }
func (ToolResultEvent) Kind() Event      { return ToolResult }
func (AgentStartEvent) Kind() Event      { return AgentStart }
func (AgentEndEvent) Kind() Event        { return AgentEnd }
func (TurnStartEvent) Kind() Event       { return TurnStart }
func (TurnEndEvent) Kind() Event         { return TurnEnd }

// NewEvent builds the lifecycle event of the given kind from loose fields.
// Adapters use it when the host payload is only known at runtime.
func NewEvent(kind Event, base Base, toolName string, input ToolInput) (LifecycleEvent, bool) {
	switch kind {
	case SessionStart:
		return SessionStartEvent{Base: base}, true
	case SessionShutdown:
		return SessionShutdownEvent{Base: base}, true
	case ToolCall:
		return ToolCallEvent{Base: base, ToolName: toolName, Input: input}, true
	case ToolResult:
		return ToolResultEvent{Base: base, ToolName: toolName, Input: input}, true
	case AgentStart:
		prompt, _ := input.String("prompt")
		return AgentStartEvent{Base: base, Prompt: prompt}, true
	case AgentEnd:
		return AgentEndEvent{Base: base}, true
	case TurnStart:
		return TurnStartEvent{Base: base}, true
	case TurnEnd:
		return TurnEndEvent{Base: base}, true
	default:
		return nil, false
	}
}

// IsAborted reports whether the event carries an abort flag that is set.
func IsAborted(ev LifecycleEvent) bool {
	switch e := ev.(type) {
	case ToolResultEvent:
		return e.Aborted
	case AgentEndEvent:
		return e.Aborted
	case TurnEndEvent:
		return e.Aborted
	default:
		return false
	}
}
