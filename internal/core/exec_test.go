package core

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/klauern/railguard/internal/config"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell runner tests need a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestShellRunnerExitCodes(t *testing.T) {
	requireShell(t)
	r := ShellRunner{Shell: "sh"}

	tests := []struct {
		name       string
		command    string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"success", "echo hello", 0, "hello\n", ""},
		{"blocking", "echo denied >&2; exit 2", 2, "", "denied\n"},
		{"failure", "exit 7", 7, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Run(context.Background(), CommandSpec{Command: tt.command, Timeout: 5 * time.Second})
			if out.Err != nil {
				t.Fatalf("unexpected error: %v", out.Err)
			}
			if out.ExitCode != tt.wantCode {
				t.Errorf("exit code = %d, want %d", out.ExitCode, tt.wantCode)
			}
			if out.Stdout != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", out.Stdout, tt.wantStdout)
			}
			if out.Stderr != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", out.Stderr, tt.wantStderr)
			}
		})
	}
}

func TestShellRunnerStdinEnvAndDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	out := ShellRunner{Shell: "sh"}.Run(context.Background(), CommandSpec{
		Command: `cat; echo; echo "$RAILGUARD_TOOL"; pwd`,
		Dir:     dir,
		Stdin:   []byte(`{"tool_name":"bash"}`),
		Timeout: 5 * time.Second,
		Env:     []string{"RAILGUARD_TOOL=bash"},
	})
	if out.ExitCode != 0 {
		t.Fatalf("exit %d: %s", out.ExitCode, out.Stderr)
	}
	lines := strings.Split(strings.TrimSpace(out.Stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("stdout = %q", out.Stdout)
	}
	if lines[0] != `{"tool_name":"bash"}` {
		t.Errorf("stdin line = %q", lines[0])
	}
	if lines[1] != "bash" {
		t.Errorf("env line = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], strings.TrimPrefix(dir, "/private")) {
		t.Errorf("pwd = %q, want %q", lines[2], dir)
	}
}

func TestShellRunnerTimeout(t *testing.T) {
	requireShell(t)
	start := time.Now()
	out := ShellRunner{Shell: "sh"}.Run(context.Background(), CommandSpec{
		Command: "echo partial; sleep 10",
		Timeout: 200 * time.Millisecond,
	})
	if !out.TimedOut {
		t.Fatalf("expected timeout, got %+v", out)
	}
	if out.ExitCode != -1 || out.Stdout != "" {
		t.Errorf("timed out run should discard output, got code=%d stdout=%q", out.ExitCode, out.Stdout)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("kill took too long: %s", elapsed)
	}
}

func TestShellRunnerCanceled(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	out := ShellRunner{Shell: "sh"}.Run(ctx, CommandSpec{Command: "sleep 10", Timeout: 5 * time.Second})
	if !out.Canceled || out.TimedOut {
		t.Errorf("expected cancellation, got %+v", out)
	}
}

func TestShellRunnerThroughEngine(t *testing.T) {
	requireShell(t)
	groups := StaticConfig{{Name: "guard", Rules: []config.Rule{{
		Command: `grep -q '"command":"git push"' && { echo "push needs review" >&2; exit 2; }; exit 0`,
	}}}}
	e := newTestEngine(groups, Options{Runner: ShellRunner{Shell: "sh"}})
	ctx := context.Background()

	block := e.ToolCall(ctx, ToolCallEvent{Base: Base{Cwd: t.TempDir()}, ToolName: "bash", Input: ToolInput{"command": "git push"}})
	if block == nil || block.Reason != "Blocked: push needs review" {
		t.Errorf("got %+v", block)
	}
	if block := e.ToolCall(ctx, ToolCallEvent{Base: Base{Cwd: t.TempDir()}, ToolName: "bash", Input: ToolInput{"command": "git status"}}); block != nil {
		t.Errorf("git status should pass, got %+v", block)
	}
}
