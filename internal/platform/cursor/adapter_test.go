package cursor

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/klauern/railguard/internal/config"
	"github.com/klauern/railguard/internal/core"
)

func testEngine(groups core.StaticConfig, runner core.CommandRunner) *core.Engine {
	return core.NewEngine(groups, core.Options{
		Runner:     runner,
		Activation: func(string, string) bool { return true },
	})
}

func TestEventConversion(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantKind core.Event
		wantTool string
		check    func(t *testing.T, ev core.LifecycleEvent)
	}{
		{
			name:     "shell becomes bash",
			payload:  `{"hook_event_name":"beforeShellExecution","command":"rm -rf /","cwd":"/w"}`,
			wantKind: core.ToolCall,
			wantTool: "bash",
			check: func(t *testing.T, ev core.LifecycleEvent) {
				if cmd, _ := ev.(core.ToolCallEvent).Input.String("command"); cmd != "rm -rf /" {
					t.Errorf("command = %q", cmd)
				}
				if ev.WorkDir() != "/w" {
					t.Errorf("cwd = %q", ev.WorkDir())
				}
			},
		},
		{
			name:     "mcp json input",
			payload:  `{"hook_event_name":"beforeMCPExecution","tool_name":"query","tool_input":"{\"sql\":\"drop table\"}","workspace_roots":["/root1"]}`,
			wantKind: core.ToolCall,
			wantTool: "query",
			check: func(t *testing.T, ev core.LifecycleEvent) {
				if sql, _ := ev.(core.ToolCallEvent).Input.String("sql"); sql != "drop table" {
					t.Errorf("sql = %q", sql)
				}
				if ev.WorkDir() != "/root1" {
					t.Errorf("cwd should fall back to the first workspace root, got %q", ev.WorkDir())
				}
			},
		},
		{
			name:     "read file",
			payload:  `{"hook_event_name":"beforeReadFile","file_path":".env","content":"SECRET=1"}`,
			wantKind: core.ToolCall,
			wantTool: "read",
		},
		{
			name:     "file edit",
			payload:  `{"hook_event_name":"afterFileEdit","file_path":"a.go","edits":[{"old_string":"a","new_string":"b"}]}`,
			wantKind: core.ToolResult,
			wantTool: "edit",
			check: func(t *testing.T, ev core.LifecycleEvent) {
				if s, _ := ev.(core.ToolResultEvent).Input.String("new_string"); s != "b" {
					t.Errorf("new_string = %q", s)
				}
			},
		},
		{
			name:     "prompt",
			payload:  `{"hook_event_name":"beforeSubmitPrompt","prompt":"hello"}`,
			wantKind: core.AgentStart,
		},
		{
			name:     "aborted stop",
			payload:  `{"hook_event_name":"stop","status":"aborted"}`,
			wantKind: core.AgentEnd,
			check: func(t *testing.T, ev core.LifecycleEvent) {
				if !core.IsAborted(ev) {
					t.Error("aborted status should set the abort flag")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseInput([]byte(tt.payload))
			if err != nil {
				t.Fatal(err)
			}
			ev, err := in.Event("")
			if err != nil {
				t.Fatal(err)
			}
			if ev.Kind() != tt.wantKind {
				t.Errorf("kind = %s, want %s", ev.Kind(), tt.wantKind)
			}
			if tt.wantTool != "" {
				var tool string
				switch e := ev.(type) {
				case core.ToolCallEvent:
					tool = e.ToolName
				case core.ToolResultEvent:
					tool = e.ToolName
				}
				if tool != tt.wantTool {
					t.Errorf("tool = %q, want %q", tool, tt.wantTool)
				}
			}
			if tt.check != nil {
				tt.check(t, ev)
			}
		})
	}

	in, _ := ParseInput([]byte(`{"hook_event_name":"afterAgentThought"}`))
	if _, err := in.Event(""); err == nil {
		t.Error("unknown events should fail")
	}
}

func TestAdapterRun(t *testing.T) {
	groups := core.StaticConfig{{
		Name:  "shell",
		Rules: []config.Rule{{Context: config.ContextCommand, Pattern: `^find\b`, Action: config.ActionBlock, Reason: "use fd"}},
	}}
	a := &Adapter{Dispatcher: testEngine(groups, core.NewMockCommandRunner())}

	tests := []struct {
		name      string
		payload   string
		wantPerm  string
		wantEmpty bool
	}{
		{"blocked", `{"hook_event_name":"beforeShellExecution","command":"find .","cwd":"/w"}`, PermissionDeny, false},
		{"allowed", `{"hook_event_name":"beforeShellExecution","command":"ls","cwd":"/w"}`, PermissionAllow, false},
		{"after edit is silent", `{"hook_event_name":"afterFileEdit","file_path":"a.go"}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := a.Run(context.Background(), "", strings.NewReader(tt.payload), &out); err != nil {
				t.Fatal(err)
			}
			if tt.wantEmpty {
				if out.Len() != 0 {
					t.Errorf("expected no output, got %q", out.String())
				}
				return
			}
			var resp HookOutput
			if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
				t.Fatalf("bad output %q: %v", out.String(), err)
			}
			if resp.Permission != tt.wantPerm {
				t.Errorf("permission = %q, want %q", resp.Permission, tt.wantPerm)
			}
			if tt.wantPerm == PermissionDeny && resp.UserMessage != "Blocked: use fd" {
				t.Errorf("user message = %q", resp.UserMessage)
			}
		})
	}
}

func TestPromptContinues(t *testing.T) {
	a := &Adapter{Dispatcher: testEngine(nil, core.NewMockCommandRunner())}
	var out bytes.Buffer
	if err := a.Run(context.Background(), BeforeSubmitPrompt, strings.NewReader(`{"prompt":"hi"}`), &out); err != nil {
		t.Fatal(err)
	}
	var resp HookOutput
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Continue == nil || !*resp.Continue {
		t.Errorf("prompt submission should continue: %s", out.String())
	}
}
