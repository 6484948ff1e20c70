package cursor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/railguard/internal/core"
	"github.com/klauern/railguard/internal/platform"
)

var _ platform.Platform = (*CursorPlatform)(nil)

func TestEventMapping(t *testing.T) {
	p := New()
	tests := []struct {
		host string
		want core.Event
	}{
		{BeforeShellExecution, core.ToolCall},
		{BeforeMCPExecution, core.ToolCall},
		{BeforeReadFile, core.ToolCall},
		{AfterFileEdit, core.ToolResult},
		{BeforeSubmitPrompt, core.AgentStart},
		{Stop, core.AgentEnd},
	}
	for _, tt := range tests {
		got, ok := p.MapEventToGeneric(tt.host)
		if !ok || got != tt.want {
			t.Errorf("MapEventToGeneric(%q) = %q, %v", tt.host, got, ok)
		}
	}
	if names := p.MapEventFromGeneric(core.ToolCall); len(names) != 3 {
		t.Errorf("tool_call aliases = %v", names)
	}
	if names := p.MapEventFromGeneric(core.TurnStart); len(names) != 0 {
		t.Errorf("turn_start has no Cursor event, got %v", names)
	}
	for _, ev := range p.AllEvents() {
		if !ev.RequiresStdio {
			t.Errorf("%s should use the stdio protocol", ev.Name)
		}
	}
}

func TestInstallUninstall(t *testing.T) {
	p := &CursorPlatform{HomeDir: t.TempDir()}
	path, err := p.ConfigPath(platform.ScopeGlobal, "")
	if err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig()
	cfg.AddHook(Stop, "notify-send done")
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	added, err := p.Install(path, "/usr/local/bin/railguard")
	if err != nil || added != 6 {
		t.Fatalf("Install added %d (err %v)", added, err)
	}
	if again, _ := p.Install(path, "/usr/local/bin/railguard"); again != 0 {
		t.Errorf("second install added %d", again)
	}

	loaded, _ := LoadConfig(path)
	if !loaded.HasHook(BeforeReadFile, "/usr/local/bin/railguard run --platform cursor --event beforeReadFile") {
		t.Errorf("hooks = %+v", loaded.Hooks)
	}

	removed, err := p.Uninstall(path)
	if err != nil || removed != 6 {
		t.Fatalf("Uninstall removed %d (err %v)", removed, err)
	}
	loaded, _ = LoadConfig(path)
	if len(loaded.Hooks) != 1 || !loaded.HasHook(Stop, "notify-send done") {
		t.Errorf("foreign hooks should survive: %+v", loaded.Hooks)
	}

	if n, err := p.Uninstall(filepath.Join(t.TempDir(), "none.json")); err != nil || n != 0 {
		t.Errorf("missing file: %d, %v", n, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestProjectConfigPath(t *testing.T) {
	got, _ := New().ConfigPath(platform.ScopeProject, "/repo")
	if got != filepath.Join("/repo", ".cursor", "hooks.json") {
		t.Errorf("got %q", got)
	}
}

func TestHookCommandLine(t *testing.T) {
	got := HookCommandLine("railguard", "beforeShellExecution")
	if got != "railguard run --platform cursor --event beforeShellExecution" {
		t.Errorf("HookCommandLine() = %q", got)
	}
	if !IsRailguardCommand(got) {
		t.Errorf("%q should be recognised as a railguard hook", got)
	}
}
