package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HookInput is written to the stdin of automation commands.
type HookInput struct {
	SessionID     string      `json:"session_id,omitempty"`
	Cwd           string      `json:"cwd"`
	HookEventName string      `json:"hook_event_name"`
	ToolName      string      `json:"tool_name,omitempty"`
	ToolInput     ToolInput   `json:"tool_input,omitempty"`
	ToolResponse  interface{} `json:"tool_response,omitempty"`
	IsError       *bool       `json:"is_error,omitempty"`
}

// NewHookInput builds the stdin payload for an evaluation. Result and error
// flag are only included for tool_result.
func NewHookInput(ec *EvaluationContext) HookInput {
	in := HookInput{
		SessionID:     ec.SessionID,
		Cwd:           ec.Cwd,
		HookEventName: string(ec.Event),
		ToolName:      ec.ToolName,
	}
	if len(ec.ToolInput) > 0 {
		in.ToolInput = ec.ToolInput
	}
	if ec.Event == ToolResult {
		in.ToolResponse = ec.Result
		isErr := ec.IsError
		in.IsError = &isErr
	}
	return in
}

// HookSpecificOutput is the event-specific part of a command's JSON output.
type HookSpecificOutput struct {
	HookEventName            string `json:"hookEventName,omitempty"`
	PermissionDecision       string `json:"permissionDecision,omitempty"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
	AdditionalContext        string `json:"additionalContext,omitempty"`
}

// HookOutput is the JSON object an automation command may print on stdout.
// The permission/userMessage/agentMessage fields accept Cursor-style output.
type HookOutput struct {
	Continue           *bool               `json:"continue,omitempty"`
	StopReason         string              `json:"stopReason,omitempty"`
	Decision           string              `json:"decision,omitempty"`
	Reason             string              `json:"reason,omitempty"`
	SystemMessage      string              `json:"systemMessage,omitempty"`
	HookSpecificOutput *HookSpecificOutput `json:"hookSpecificOutput,omitempty"`

	Permission   string `json:"permission,omitempty"`
	UserMessage  string `json:"userMessage,omitempty"`
	AgentMessage string `json:"agentMessage,omitempty"`
}

// ParseHookOutput parses stdout as a HookOutput. It returns nil, nil when the
// output isn't a JSON object so callers fall back to plain-text handling.
func ParseHookOutput(stdout string) (*HookOutput, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return nil, nil
	}

	var out HookOutput
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, fmt.Errorf("invalid JSON in hook output: %w", err)
	}
	return &out, nil
}

// PermissionDecision returns the normalised permission verdict, if any.
func (o *HookOutput) PermissionDecision() string {
	if o.HookSpecificOutput != nil && o.HookSpecificOutput.PermissionDecision != "" {
		return strings.ToLower(o.HookSpecificOutput.PermissionDecision)
	}
	return strings.ToLower(o.Permission)
}

// PermissionReason returns the explanation attached to a permission verdict.
func (o *HookOutput) PermissionReason() string {
	if o.HookSpecificOutput != nil && o.HookSpecificOutput.PermissionDecisionReason != "" {
		return o.HookSpecificOutput.PermissionDecisionReason
	}
	if o.AgentMessage != "" {
		return o.AgentMessage
	}
	if o.UserMessage != "" {
		return o.UserMessage
	}
	return o.Reason
}

// AdditionalContext returns context the command wants added to the
// conversation.
func (o *HookOutput) AdditionalContext() string {
	if o.HookSpecificOutput != nil {
		return o.HookSpecificOutput.AdditionalContext
	}
	return ""
}
