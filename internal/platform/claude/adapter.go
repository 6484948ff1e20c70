package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/brads3290/cchooks"
	"github.com/klauern/railguard/internal/core"
	"github.com/klauern/railguard/internal/platform"
)

// Runner executes one hook invocation and returns its exit status.
type Runner interface {
	Run(ctx context.Context) int
}

// RunnerFactory creates a Runner with the provided handlers
type RunnerFactory func(preHook func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
	postHook func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
	rawHook func(context.Context, string) *cchooks.RawResponse) Runner

// DefaultRunnerFactory creates a cchooks.Runner reading the process stdin.
// Its exit status is returned to the caller instead of ending the process.
func DefaultRunnerFactory(preHook func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
	postHook func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
	rawHook func(context.Context, string) *cchooks.RawResponse,
) Runner {
	runner := &cchooks.Runner{}
	if preHook != nil {
		runner.PreToolUse = preHook
	}
	if postHook != nil {
		runner.PostToolUse = postHook
	}
	if rawHook != nil {
		runner.Raw = rawHook
	}
	return &hookRunner{runner: runner}
}

type hookRunner struct {
	runner *cchooks.Runner
}

func (r *hookRunner) Run(ctx context.Context) int {
	status := 0
	r.runner.ExitFn = func(code int) {
		if status == 0 {
			status = code
		}
	}
	r.runner.RunContext(ctx)
	return status
}

// HookInput is the JSON payload Claude Code writes to hook commands.
type HookInput struct {
	SessionID      string                 `json:"session_id"`
	TranscriptPath string                 `json:"transcript_path,omitempty"`
	Cwd            string                 `json:"cwd"`
	HookEventName  string                 `json:"hook_event_name"`
	ToolName       string                 `json:"tool_name,omitempty"`
	ToolInput      map[string]interface{} `json:"tool_input,omitempty"`
	ToolResponse   interface{}            `json:"tool_response,omitempty"`
	Prompt         string                 `json:"prompt,omitempty"`
	StopHookActive bool                   `json:"stop_hook_active,omitempty"`
	Source         string                 `json:"source,omitempty"`
	Reason         string                 `json:"reason,omitempty"`
}

// ParseInput decodes a Claude Code hook payload.
func ParseInput(data []byte) (*HookInput, error) {
	var in HookInput
	if len(strings.TrimSpace(string(data))) == 0 {
		return &in, nil
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse hook input: %w", err)
	}
	return &in, nil
}

// Event converts the payload into a lifecycle event. fallback names the
// event when the payload has no hook_event_name.
func (in *HookInput) Event(fallback string) (core.LifecycleEvent, error) {
	name := in.HookEventName
	if name == "" {
		name = fallback
	}
	kind, ok := core.ResolveEvent(name)
	if !ok {
		return nil, fmt.Errorf("unsupported Claude Code event %q", name)
	}

	base := core.Base{Cwd: in.Cwd, SessionID: in.SessionID}
	switch kind {
	case core.ToolResult:
		isErr, aborted := toolResponseFlags(in.ToolResponse)
		return core.ToolResultEvent{
			Base:     base,
			ToolName: in.ToolName,
			Input:    core.ToolInput(in.ToolInput),
			Result:   in.ToolResponse,
			IsError:  isErr,
			Aborted:  aborted,
		}, nil
	case core.AgentStart:
		return core.AgentStartEvent{Base: base, Prompt: in.Prompt}, nil
	default:
		ev, _ := core.NewEvent(kind, base, in.ToolName, core.ToolInput(in.ToolInput))
		return ev, nil
	}
}

// toolResponseFlags reads the error and interruption markers Claude Code
// puts in tool responses.
func toolResponseFlags(resp interface{}) (isError, aborted bool) {
	m, ok := resp.(map[string]interface{})
	if !ok {
		return false, false
	}
	if v, ok := m["is_error"].(bool); ok {
		isError = v
	}
	if v, ok := m["success"].(bool); ok && !v {
		isError = true
	}
	if v, ok := m["interrupted"].(bool); ok {
		aborted = v
	}
	return isError, aborted
}

// Adapter connects Claude Code hook invocations to a Dispatcher.
type Adapter struct {
	Dispatcher    platform.Dispatcher
	RunnerFactory RunnerFactory

	mu      sync.Mutex
	lastRaw *HookInput
}

// NewAdapter creates an Adapter using the cchooks runner.
func NewAdapter(d platform.Dispatcher) *Adapter {
	return &Adapter{Dispatcher: d, RunnerFactory: DefaultRunnerFactory}
}

// Run handles one invocation. When hostEvent names PreToolUse or
// PostToolUse the cchooks runner reads the payload from the process stdin.
// Otherwise the payload is read from in, routed on its hook_event_name and
// answered on out.
func (a *Adapter) Run(ctx context.Context, hostEvent string, in io.Reader, out io.Writer) error {
	kind, ok := core.ResolveEvent(hostEvent)
	if hostEvent != "" && ok && (kind == core.ToolCall || kind == core.ToolResult) {
		var pre func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface
		var post func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface
		if kind == core.ToolCall {
			pre = a.preToolUse
		} else {
			post = a.postToolUse
		}
		factory := a.RunnerFactory
		if factory == nil {
			factory = DefaultRunnerFactory
		}
		if status := factory(pre, post, a.rawHandler()).Run(ctx); status != 0 {
			return fmt.Errorf("%s hook exited with status %d", hostEvent, status)
		}
		return nil
	}
	return a.handleRaw(ctx, hostEvent, in, out)
}

// rawHandler keeps the full payload so tool input, cwd and session id are
// available to the typed handlers.
func (a *Adapter) rawHandler() func(context.Context, string) *cchooks.RawResponse {
	return func(_ context.Context, rawJSON string) *cchooks.RawResponse {
		if in, err := ParseInput([]byte(rawJSON)); err == nil {
			a.mu.Lock()
			a.lastRaw = in
			a.mu.Unlock()
		}
		return nil
	}
}

func (a *Adapter) captured() *HookInput {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastRaw
}

func (a *Adapter) preToolUse(ctx context.Context, ev *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface {
	in := a.captured()
	if in == nil {
		in = &HookInput{HookEventName: "PreToolUse"}
	}
	if ev != nil {
		if in.ToolName == "" {
			in.ToolName = ev.ToolName
		}
		if in.ToolInput == nil {
			if bash, err := ev.AsBash(); err == nil {
				in.ToolInput = map[string]interface{}{"command": bash.Command}
			}
		}
	}
	return a.HandlePreToolUse(ctx, in)
}

func (a *Adapter) postToolUse(ctx context.Context, ev *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface {
	in := a.captured()
	if in == nil {
		in = &HookInput{HookEventName: "PostToolUse"}
	}
	if ev != nil && in.ToolName == "" {
		in.ToolName = ev.ToolName
	}
	return a.HandlePostToolUse(ctx, in)
}

// HandlePreToolUse dispatches a tool call and maps the result to a cchooks
// response.
func (a *Adapter) HandlePreToolUse(ctx context.Context, in *HookInput) cchooks.PreToolUseResponseInterface {
	ev := core.ToolCallEvent{
		Base:     core.Base{Cwd: in.Cwd, SessionID: in.SessionID},
		ToolName: in.ToolName,
		Input:    core.ToolInput(in.ToolInput),
	}
	res := a.Dispatcher.Dispatch(ctx, ev)
	extra := strings.Join(res.AdditionalContext, "\n")
	if res.Blocked() {
		return BlockWithContext(res.Block.Reason, extra)
	}
	return ApproveWithOutput(userMessage(res), extra)
}

// HandlePostToolUse dispatches a tool result. Results never block.
func (a *Adapter) HandlePostToolUse(ctx context.Context, in *HookInput) cchooks.PostToolUseResponseInterface {
	payload := *in
	payload.HookEventName = "PostToolUse"
	ev, err := payload.Event("")
	if err != nil {
		return cchooks.Allow()
	}
	res := a.Dispatcher.Dispatch(ctx, ev)
	message := userMessage(res)
	if len(res.Errors) > 0 {
		message = strings.Join(append(nonEmpty(message), res.Errors...), "\n")
	}
	return AllowWithOutput(message, strings.Join(res.AdditionalContext, "\n"))
}

// userMessage joins automation output and system messages in rule order.
func userMessage(res *core.Result) string {
	return strings.Join(append(append([]string{}, res.Outputs...), res.SystemMessages...), "\n")
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// rawOutput is the JSON answer for events cchooks doesn't model.
type rawOutput struct {
	SystemMessage      string                   `json:"systemMessage,omitempty"`
	HookSpecificOutput *core.HookSpecificOutput `json:"hookSpecificOutput,omitempty"`
}

func (a *Adapter) handleRaw(ctx context.Context, hostEvent string, in io.Reader, out io.Writer) error {
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

	switch ev.Kind() {
	case core.ToolCall:
		return writeResponse(out, a.HandlePreToolUse(ctx, payload))
	case core.ToolResult:
		return writeResponse(out, a.HandlePostToolUse(ctx, payload))
	}

	res := a.Dispatcher.Dispatch(ctx, ev)
	if res.Skipped {
		return nil
	}
	return writeRawOutput(out, payload.HookEventName, hostEvent, res)
}

// writeResponse encodes a tool response the way the cchooks runner does:
// a bare allow writes nothing.
func writeResponse(out io.Writer, resp interface{}) error {
	if post, ok := resp.(*cchooks.PostToolUseResponse); ok && *post == (cchooks.PostToolUseResponse{}) {
		return nil
	}
	return json.NewEncoder(out).Encode(resp)
}

func writeRawOutput(out io.Writer, payloadEvent, hostEvent string, res *core.Result) error {
	var resp rawOutput
	resp.SystemMessage = userMessage(res)

	name := payloadEvent
	if name == "" {
		name = hostEvent
	}
	if len(res.AdditionalContext) > 0 && (res.Event == core.AgentStart || res.Event == core.SessionStart) {
		resp.HookSpecificOutput = &core.HookSpecificOutput{
			HookEventName:     name,
			AdditionalContext: strings.Join(res.AdditionalContext, "\n"),
		}
	}
	if resp.SystemMessage == "" && resp.HookSpecificOutput == nil {
		return nil
	}
	return json.NewEncoder(out).Encode(resp)
}
