package cursor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigHooks(t *testing.T) {
	cfg := NewConfig()
	if cfg.Version != 1 || cfg.Hooks == nil {
		t.Fatalf("unexpected new config: %+v", cfg)
	}

	if !cfg.AddHook(BeforeShellExecution, "railguard run --event beforeShellExecution") {
		t.Error("first add should succeed")
	}
	if cfg.AddHook(BeforeShellExecution, "railguard run --event beforeShellExecution") {
		t.Error("duplicate add should be ignored")
	}
	cfg.AddHook(BeforeShellExecution, "/other/hook.sh")
	cfg.AddHook(Stop, "railguard run --event stop")

	if !cfg.HasHook(BeforeShellExecution, "/other/hook.sh") {
		t.Error("expected foreign hook")
	}
	if cfg.HasHook(AfterFileEdit, "/other/hook.sh") {
		t.Error("unexpected hook on afterFileEdit")
	}

	removed := cfg.RemoveHooks(IsRailguardCommand)
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if _, ok := cfg.Hooks[Stop]; ok {
		t.Error("empty events should be deleted")
	}
	if hooks := cfg.Hooks[BeforeShellExecution]; len(hooks) != 1 || hooks[0].Command != "/other/hook.sh" {
		t.Errorf("remaining hooks = %+v", hooks)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(dir, "missing.json"))
		if err != nil || cfg.Version != 1 || len(cfg.Hooks) != 0 {
			t.Errorf("got %+v, %v", cfg, err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "hooks.json")
		cfg := NewConfig()
		cfg.AddHook(AfterFileEdit, "fmt.sh")
		if err := cfg.Save(path); err != nil {
			t.Fatal(err)
		}
		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		if !loaded.HasHook(AfterFileEdit, "fmt.sh") {
			t.Errorf("loaded = %+v", loaded)
		}
	})
}
