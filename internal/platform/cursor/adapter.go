package cursor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauern/railguard/internal/constants"
	"github.com/klauern/railguard/internal/core"
	"github.com/klauern/railguard/internal/platform"
)

// ToolMCP is the tool name used when an MCP call carries no tool name.
const ToolMCP = "mcp"

// ParseInput decodes a Cursor hook payload.
func ParseInput(data []byte) (*HookInput, error) {
	var in HookInput
	if len(strings.TrimSpace(string(data))) == 0 {
		return &in, nil
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse Cursor hook input: %w", err)
	}
	return &in, nil
}

func (in *HookInput) cwd() string {
	if in.CWD != "" {
		return in.CWD
	}
	if len(in.WorkspaceRoots) > 0 {
		return in.WorkspaceRoots[0]
	}
	return ""
}

// Event converts the payload into a lifecycle event. Shell commands become
// the bash tool so command rules apply to them.
func (in *HookInput) Event(fallback string) (core.LifecycleEvent, error) {
	name := in.HookEventName
	if name == "" {
		name = fallback
	}
	base := core.Base{Cwd: in.cwd(), SessionID: in.ConversationID}

	switch name {
	case BeforeShellExecution:
		return core.ToolCallEvent{
			Base:     base,
			ToolName: constants.ToolBash,
			Input:    core.ToolInput{"command": in.Command},
		}, nil
	case BeforeMCPExecution:
		tool := in.ToolName
		if tool == "" {
			tool = ToolMCP
		}
		return core.ToolCallEvent{Base: base, ToolName: tool, Input: mcpInput(in)}, nil
	case BeforeReadFile:
		return core.ToolCallEvent{
			Base:     base,
			ToolName: constants.ToolRead,
			Input:    core.ToolInput{"file_path": in.FilePath, "content": in.Content},
		}, nil
	case AfterFileEdit:
		input := core.ToolInput{"file_path": in.FilePath}
		if len(in.Edits) > 0 {
			parts := make([]string, len(in.Edits))
			for i, e := range in.Edits {
				parts[i] = e.NewString
			}
			input["new_string"] = strings.Join(parts, "\n")
		}
		return core.ToolResultEvent{Base: base, ToolName: constants.ToolEdit, Input: input, Result: in.Edits}, nil
	case BeforeSubmitPrompt:
		return core.AgentStartEvent{Base: base, Prompt: in.Prompt}, nil
	case Stop:
		return core.AgentEndEvent{Base: base, Aborted: in.Status == "aborted"}, nil
	default:
		return nil, fmt.Errorf("unsupported Cursor event %q", name)
	}
}

// mcpInput decodes the MCP tool input when it is a JSON object.
func mcpInput(in *HookInput) core.ToolInput {
	input := core.ToolInput{}
	if strings.HasPrefix(strings.TrimSpace(in.ToolInput), "{") {
		_ = json.Unmarshal([]byte(in.ToolInput), &input)
	}
	if len(input) == 0 && in.ToolInput != "" {
		input["input"] = in.ToolInput
	}
	if in.URL != "" {
		input["url"] = in.URL
	}
	if in.Command != "" {
		input["server_command"] = in.Command
	}
	return input
}

// Response maps a dispatch result to Cursor's reply for event. Events
// without a reply return nil.
func Response(event string, res *core.Result) *HookOutput {
	messages := append(append([]string{}, res.Outputs...), res.SystemMessages...)
	user := strings.Join(messages, "\n")
	agent := strings.Join(append(append([]string{}, res.Outputs...), res.AdditionalContext...), "\n")

	switch event {
	case BeforeShellExecution, BeforeMCPExecution, BeforeReadFile:
		if res.Blocked() {
			return &HookOutput{Permission: PermissionDeny, UserMessage: res.Block.Reason, AgentMessage: res.Block.Reason}
		}
		return &HookOutput{Permission: PermissionAllow, UserMessage: user, AgentMessage: agent}
	case BeforeSubmitPrompt:
		cont := true
		return &HookOutput{Continue: &cont, UserMessage: user, AgentMessage: agent}
	default:
		return nil
	}
}

// Adapter connects Cursor hook invocations to a Dispatcher.
type Adapter struct {
	Dispatcher platform.Dispatcher
}

// Run reads one payload from in, dispatches it and writes the reply to out.
func (a *Adapter) Run(ctx context.Context, hostEvent string, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read hook input: %w", err)
	}
	payload, err := ParseInput(data)
	if err != nil {
		return err
	}
	ev, err := payload.Event(hostEvent)
	if err != nil {
		return err
	}

	res := a.Dispatcher.Dispatch(ctx, ev)
	name := payload.HookEventName
	if name == "" {
		name = hostEvent
	}
	resp := Response(name, res)
	if resp == nil {
		return nil
	}
	return json.NewEncoder(out).Encode(resp)
}
