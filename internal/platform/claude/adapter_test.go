package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/brads3290/cchooks"
	"github.com/klauern/railguard/internal/config"
	"github.com/klauern/railguard/internal/core"
)

// mockRunner replays a raw payload through the handlers instead of reading
// stdin.
type mockRunner struct {
	raw     string
	pre     func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface
	post    func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface
	rawHook func(context.Context, string) *cchooks.RawResponse

	status   int
	ctx      context.Context
	preResp  cchooks.PreToolUseResponseInterface
	postResp cchooks.PostToolUseResponseInterface
}

func (m *mockRunner) Run(ctx context.Context) int {
	m.ctx = ctx
	if m.rawHook != nil {
		m.rawHook(ctx, m.raw)
	}
	if m.pre != nil {
		m.preResp = m.pre(ctx, &cchooks.PreToolUseEvent{ToolName: "Bash"})
	}
	if m.post != nil {
		m.postResp = m.post(ctx, &cchooks.PostToolUseEvent{ToolName: "Edit"})
	}
	return m.status
}

func mockFactory(raw string, runners *[]*mockRunner) RunnerFactory {
	return func(pre func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
		post func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
		rawHook func(context.Context, string) *cchooks.RawResponse,
	) Runner {
		r := &mockRunner{raw: raw, pre: pre, post: post, rawHook: rawHook}
		*runners = append(*runners, r)
		return r
	}
}

func testEngine(groups core.StaticConfig, runner core.CommandRunner) *core.Engine {
	return core.NewEngine(groups, core.Options{
		Runner:     runner,
		Activation: func(string, string) bool { return true },
	})
}

var findGroups = core.StaticConfig{{
	Name:  "tools",
	Rules: []config.Rule{{Context: config.ContextCommand, Pattern: `^find\b`, Action: config.ActionBlock, Reason: "use fd"}},
}}

func TestParseInputEvents(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		fallback string
		want     core.Event
		wantErr  bool
	}{
		{"pre tool use", `{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls"}}`, "", core.ToolCall, false},
		{"post tool use", `{"hook_event_name":"PostToolUse","tool_name":"Edit"}`, "", core.ToolResult, false},
		{"prompt", `{"hook_event_name":"UserPromptSubmit","prompt":"hi"}`, "", core.AgentStart, false},
		{"stop", `{"hook_event_name":"Stop"}`, "", core.AgentEnd, false},
		{"subagent", `{"hook_event_name":"SubagentStop"}`, "", core.TurnEnd, false},
		{"session end", `{"hook_event_name":"SessionEnd","reason":"exit"}`, "", core.SessionShutdown, false},
		{"fallback name", `{"cwd":"/w"}`, "SessionStart", core.SessionStart, false},
		{"empty payload", ``, "Stop", core.AgentEnd, false},
		{"unsupported", `{"hook_event_name":"Notification"}`, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseInput([]byte(tt.payload))
			if err != nil {
				t.Fatalf("ParseInput: %v", err)
			}
			ev, err := in.Event(tt.fallback)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Event() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && ev.Kind() != tt.want {
				t.Errorf("kind = %s, want %s", ev.Kind(), tt.want)
			}
		})
	}

	if _, err := ParseInput([]byte(`{broken`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestToolResultFlags(t *testing.T) {
	in, _ := ParseInput([]byte(`{"hook_event_name":"PostToolUse","tool_name":"Bash","tool_response":{"interrupted":true,"is_error":true}}`))
	ev, err := in.Event("")
	if err != nil {
		t.Fatal(err)
	}
	res := ev.(core.ToolResultEvent)
	if !res.Aborted || !res.IsError {
		t.Errorf("flags not mapped: %+v", res)
	}
}

func TestHandlePreToolUse(t *testing.T) {
	a := NewAdapter(testEngine(findGroups, core.NewMockCommandRunner()))
	ctx := context.Background()

	resp := a.HandlePreToolUse(ctx, &HookInput{Cwd: "/w", ToolName: "Bash", ToolInput: map[string]interface{}{"command": "find . -name x"}})
	pre, ok := resp.(*PreToolResponse)
	if !ok {
		t.Fatalf("expected a blocking response, got %T", resp)
	}
	if pre.Decision != cchooks.PreToolUseBlock || pre.Reason != "Blocked: use fd" {
		t.Errorf("decision = %q, reason = %q", pre.Decision, pre.Reason)
	}

	resp = a.HandlePreToolUse(ctx, &HookInput{Cwd: "/w", ToolName: "Bash", ToolInput: map[string]interface{}{"command": "ls"}})
	if plain, ok := resp.(*cchooks.PreToolUseResponse); !ok || plain.Decision != cchooks.PreToolUseApprove {
		t.Errorf("ls should get a plain approval, got %#v", resp)
	}
}

func TestHandlePostToolUseOutputs(t *testing.T) {
	runner := core.NewMockCommandRunner()
	runner.Default = core.CommandOutcome{Stdout: "formatted main.go"}
	groups := core.StaticConfig{{Name: "fmt", Rules: []config.Rule{{Event: "tool_result", Command: "gofmt -w ${file}"}}}}
	a := NewAdapter(testEngine(groups, runner))

	resp := a.HandlePostToolUse(context.Background(), &HookInput{Cwd: "/w", ToolName: "Edit", ToolInput: map[string]interface{}{"file_path": "main.go"}})
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"systemMessage":"formatted main.go"}` {
		t.Errorf("serialized response = %s", data)
	}
	if got := runner.Commands(); len(got) != 1 || got[0] != "gofmt -w main.go" {
		t.Errorf("commands = %v", got)
	}
}

func TestRunUsesRunnerForToolEvents(t *testing.T) {
	var runners []*mockRunner
	raw := `{"session_id":"s","cwd":"/w","hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"find ."}}`
	a := NewAdapter(testEngine(findGroups, core.NewMockCommandRunner()))
	a.RunnerFactory = mockFactory(raw, &runners)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "caller")
	if err := a.Run(ctx, "PreToolUse", strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if len(runners) != 1 {
		t.Fatalf("expected one runner, got %d", len(runners))
	}
	r := runners[0]
	if r.post != nil {
		t.Error("PreToolUse should not register a post handler")
	}
	if r.ctx == nil || r.ctx.Value(ctxKey{}) != "caller" {
		t.Error("runner should receive the caller's context")
	}
	pre, ok := r.preResp.(*PreToolResponse)
	if !ok || pre.Reason != "Blocked: use fd" {
		t.Errorf("expected block from captured raw input, got %#v", r.preResp)
	}
}

func TestRunReportsRunnerExitStatus(t *testing.T) {
	var runners []*mockRunner
	a := NewAdapter(testEngine(nil, core.NewMockCommandRunner()))
	factory := mockFactory(`{}`, &runners)
	a.RunnerFactory = func(pre func(context.Context, *cchooks.PreToolUseEvent) cchooks.PreToolUseResponseInterface,
		post func(context.Context, *cchooks.PostToolUseEvent) cchooks.PostToolUseResponseInterface,
		rawHook func(context.Context, string) *cchooks.RawResponse,
	) Runner {
		r := factory(pre, post, rawHook).(*mockRunner)
		r.status = 2
		return r
	}

	err := a.Run(context.Background(), "PostToolUse", strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "status 2") {
		t.Errorf("expected exit status error, got %v", err)
	}
}

func TestRunRoutesOnPayloadEventName(t *testing.T) {
	runner := core.NewMockCommandRunner()
	runner.Default = core.CommandOutcome{Stdout: "formatted main.go"}
	groups := append(core.StaticConfig{{Name: "fmt", Rules: []config.Rule{{
		Event:   "tool_result",
		Context: config.ContextFileName,
		Pattern: `\.go$`,
		Command: "gofmt -w ${file}",
	}}}}, findGroups...)

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "blocked tool call",
			payload: `{"cwd":"/w","hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"find . -name x"}}`,
			want:    `{"decision":"block","reason":"Blocked: use fd"}`,
		},
		{
			name:    "allowed tool call",
			payload: `{"cwd":"/w","hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls"}}`,
			want:    `{"decision":"approve"}`,
		},
		{
			name:    "tool result output",
			payload: `{"cwd":"/w","hook_event_name":"PostToolUse","tool_name":"Edit","tool_input":{"file_path":"main.go"}}`,
			want:    `{"systemMessage":"formatted main.go"}`,
		},
		{
			name:    "quiet tool result",
			payload: `{"cwd":"/w","hook_event_name":"PostToolUse","tool_name":"Read","tool_input":{"file_path":"README.md"}}`,
			want:    ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var runners []*mockRunner
			a := NewAdapter(testEngine(groups, runner))
			a.RunnerFactory = mockFactory("", &runners)

			var out bytes.Buffer
			if err := a.Run(context.Background(), "", strings.NewReader(tt.payload), &out); err != nil {
				t.Fatal(err)
			}
			if len(runners) != 0 {
				t.Error("payloads read from the reader should not start the stdin runner")
			}
			if got := strings.TrimSpace(out.String()); got != tt.want {
				t.Errorf("output = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunRawEvents(t *testing.T) {
	runner := core.NewMockCommandRunner()
	runner.Default = core.CommandOutcome{Stdout: `{"hookSpecificOutput":{"additionalContext":"branch: main"}}`}
	groups := core.StaticConfig{{Name: "ctx", Rules: []config.Rule{{Event: "agent_start", Command: "git branch --show-current"}}}}
	a := NewAdapter(testEngine(groups, runner))

	var out bytes.Buffer
	in := strings.NewReader(`{"session_id":"s","cwd":"/w","hook_event_name":"UserPromptSubmit","prompt":"fix it"}`)
	if err := a.Run(context.Background(), "UserPromptSubmit", in, &out); err != nil {
		t.Fatal(err)
	}

	var resp rawOutput
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("bad output %q: %v", out.String(), err)
	}
	if resp.HookSpecificOutput == nil || resp.HookSpecificOutput.AdditionalContext != "branch: main" {
		t.Errorf("unexpected output: %s", out.String())
	}
	if resp.HookSpecificOutput.HookEventName != "UserPromptSubmit" {
		t.Errorf("event name = %q", resp.HookSpecificOutput.HookEventName)
	}
}

func TestRunRawEventWithoutOutput(t *testing.T) {
	a := NewAdapter(testEngine(nil, core.NewMockCommandRunner()))
	var out bytes.Buffer
	if err := a.Run(context.Background(), "Stop", strings.NewReader(`{"hook_event_name":"Stop"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
