package core

// Event is a canonical lifecycle phase of the host agent.
type Event string

// All lifecycle events the engine dispatches
const (
	SessionStart    Event = "session_start"
	SessionShutdown Event = "session_shutdown"
	ToolCall        Event = "tool_call"
	ToolResult      Event = "tool_result"
	AgentStart      Event = "agent_start"
	AgentEnd        Event = "agent_end"
	TurnStart       Event = "turn_start"
	TurnEnd         Event = "turn_end"
)

// EventInfo describes a lifecycle event with the names hosts use for it.
type EventInfo struct {
	Event       Event
	Description string
	// Blockable events may prevent the host action from running.
	Blockable bool
	// Abortable events carry an aborted flag that skips every rule.
	Abortable     bool
	ClaudeAliases []string
	CursorAliases []string
}

// AllEvents returns every lifecycle event in dispatch order.
func AllEvents() []EventInfo {
	return []EventInfo{
		{
			Event:         SessionStart,
			Description:   "A host session starts or resumes",
			ClaudeAliases: []string{"SessionStart"},
		},
		{
			Event:         SessionShutdown,
			Description:   "A host session ends",
			ClaudeAliases: []string{"SessionEnd"},
		},
		{
			Event:         ToolCall,
			Description:   "Before a tool runs; policy rules and exit code 2 may block it",
			Blockable:     true,
			ClaudeAliases: []string{"PreToolUse"},
			CursorAliases: []string{"beforeShellExecution", "beforeMCPExecution", "beforeReadFile"},
		},
		{
			Event:         ToolResult,
			Description:   "After a tool completes",
			Abortable:     true,
			ClaudeAliases: []string{"PostToolUse"},
			CursorAliases: []string{"afterFileEdit"},
		},
		{
			Event:         AgentStart,
			Description:   "The user submitted a prompt and the agent starts working",
			ClaudeAliases: []string{"UserPromptSubmit"},
			CursorAliases: []string{"beforeSubmitPrompt"},
		},
		{
			Event:         AgentEnd,
			Description:   "The agent finished responding",
			Abortable:     true,
			ClaudeAliases: []string{"Stop"},
			CursorAliases: []string{"stop"},
		},
		{
			Event:       TurnStart,
			Description: "A new agent turn begins",
		},
		{
			Event:         TurnEnd,
			Description:   "An agent turn (or subagent run) ends",
			Abortable:     true,
			ClaudeAliases: []string{"SubagentStop"},
		},
	}
}

// LookupEvent returns the metadata of a canonical event.
func LookupEvent(e Event) (EventInfo, bool) {
	for _, info := range AllEvents() {
		if info.Event == e {
			return info, true
		}
	}
	return EventInfo{}, false
}

// ResolveEvent converts a canonical name or a host alias to its canonical
// event. An empty name resolves to ToolCall, the default rule event.
func ResolveEvent(name string) (Event, bool) {
	if name == "" {
		return ToolCall, true
	}
	for _, info := range AllEvents() {
		if string(info.Event) == name {
			return info.Event, true
		}
		for _, alias := range info.ClaudeAliases {
			if alias == name {
				return info.Event, true
			}
		}
		for _, alias := range info.CursorAliases {
			if alias == name {
				return info.Event, true
			}
		}
	}
	return "", false
}

// IsValidEvent checks if an event name is canonical or a known alias.
func IsValidEvent(name string) bool {
	_, ok := ResolveEvent(name)
	return ok
}

// ValidEventNames returns the canonical event names.
func ValidEventNames() []string {
	events := AllEvents()
	names := make([]string, len(events))
	for i, info := range events {
		names[i] = string(info.Event)
	}
	return names
}

// IsBlockable reports whether the event may block the host action.
func (e Event) IsBlockable() bool {
	info, ok := LookupEvent(e)
	return ok && info.Blockable
}
