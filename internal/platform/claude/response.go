package claude

import (
	"encoding/json"

	"github.com/brads3290/cchooks"
	"github.com/klauern/railguard/internal/core"
)

// hookOutput is the JSON object Claude Code reads from a hook's stdout.
type hookOutput struct {
	Decision           string                   `json:"decision,omitempty"`
	Reason             string                   `json:"reason,omitempty"`
	Continue           *bool                    `json:"continue,omitempty"`
	StopReason         string                   `json:"stopReason,omitempty"`
	SystemMessage      string                   `json:"systemMessage,omitempty"`
	HookSpecificOutput *core.HookSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

func (o *hookOutput) attach(event, message, extra string) {
	o.SystemMessage = message
	if extra != "" {
		o.HookSpecificOutput = &core.HookSpecificOutput{HookEventName: event, AdditionalContext: extra}
	}
}

// PreToolResponse is a PreToolUse decision plus the automation output shown
// to the user and the context handed to the agent.
type PreToolResponse struct {
	*cchooks.PreToolUseResponse
	SystemMessage     string
	AdditionalContext string
}

// MarshalJSON writes the decision together with systemMessage and
// hookSpecificOutput, which the embedded cchooks type has no fields for.
func (r *PreToolResponse) MarshalJSON() ([]byte, error) {
	var out hookOutput
	if r.PreToolUseResponse != nil {
		out = hookOutput{
			Decision:   r.Decision,
			Reason:     r.Reason,
			Continue:   r.Continue,
			StopReason: r.StopReason,
		}
	}
	out.attach("PreToolUse", r.SystemMessage, r.AdditionalContext)
	return json.Marshal(out)
}

// PostToolResponse is a PostToolUse answer carrying automation output.
type PostToolResponse struct {
	*cchooks.PostToolUseResponse
	SystemMessage     string
	AdditionalContext string
}

// MarshalJSON mirrors PreToolResponse.MarshalJSON for PostToolUse.
func (r *PostToolResponse) MarshalJSON() ([]byte, error) {
	var out hookOutput
	if r.PostToolUseResponse != nil {
		out = hookOutput{
			Decision:   r.Decision,
			Reason:     r.Reason,
			Continue:   r.Continue,
			StopReason: r.StopReason,
		}
	}
	out.attach("PostToolUse", r.SystemMessage, r.AdditionalContext)
	return json.Marshal(out)
}

// BlockWithContext blocks a tool call. extra reaches the agent alongside
// the reason.
func BlockWithContext(reason, extra string) cchooks.PreToolUseResponseInterface {
	return &PreToolResponse{PreToolUseResponse: cchooks.Block(reason), AdditionalContext: extra}
}

// ApproveWithOutput approves a tool call and reports automation output.
// An empty message and context yields the plain cchooks approval.
func ApproveWithOutput(message, extra string) cchooks.PreToolUseResponseInterface {
	if message == "" && extra == "" {
		return cchooks.Approve()
	}
	return &PreToolResponse{PreToolUseResponse: cchooks.Approve(), SystemMessage: message, AdditionalContext: extra}
}

// AllowWithOutput lets a tool result through and reports automation output.
func AllowWithOutput(message, extra string) cchooks.PostToolUseResponseInterface {
	if message == "" && extra == "" {
		return cchooks.Allow()
	}
	return &PostToolResponse{PostToolUseResponse: cchooks.Allow(), SystemMessage: message, AdditionalContext: extra}
}
