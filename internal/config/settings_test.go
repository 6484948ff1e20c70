package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGlobalSettingsMissingFile(t *testing.T) {
	settings, err := LoadGlobalSettings(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.HasRules() {
		t.Error("missing file should not report rules")
	}
	if settings.LogRotation != DefaultLogRotationConfig() {
		t.Errorf("expected default rotation, got %+v", settings.LogRotation)
	}
}

func TestLoadGlobalRules(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   error
		wantCount int
	}{
		{name: "no rules key", content: `{"theme": "dark"}`, wantErr: ErrNoGlobal},
		{name: "null rules", content: `{"rules": null}`, wantCount: 0},
		{name: "two groups", content: `{"rules": [{"group": "a"}, {"group": "b"}]}`, wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			writeFile(t, path, tt.content)
			groups, err := LoadGlobalRules(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if groups == nil || len(groups) != tt.wantCount {
				t.Errorf("expected %d groups, got %#v", tt.wantCount, groups)
			}
		})
	}
}

func TestSaveGlobalSettingsRoundTripKeepsRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	writeFile(t, path, `{"logRotation": {"maxAge": 7, "maxSize": 1, "maxBackups": 2, "compress": false}, "other": true}`)

	settings, err := LoadGlobalSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	settings.SetRules([]RuleGroup{{Name: "x"}})
	if err := SaveGlobalSettings(path, settings); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := LoadGlobalSettings(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.LogRotation.MaxAge != 7 || reloaded.LogRotation.Compress {
		t.Errorf("rotation not preserved: %+v", reloaded.LogRotation)
	}
	if reloaded.Other["other"] != true {
		t.Errorf("unknown key not preserved: %v", reloaded.Other)
	}
	if !reloaded.HasRules() || len(reloaded.Rules) != 1 {
		t.Errorf("rules not saved: %+v", reloaded.Rules)
	}
}

func TestSetupLogRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "railguard.log")
	logger := SetupLogRotation(path, DefaultLogRotationConfig())
	if logger == nil {
		t.Fatal("expected a logger")
	}
	defer logger.Close()
	if logger.Filename != path || logger.MaxBackups != 5 {
		t.Errorf("unexpected logger config: %+v", logger)
	}
	if !IsValidLoggingFormat(LoggingFormatPretty) || IsValidLoggingFormat("xml") {
		t.Error("logging format validation is wrong")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RAILGUARD_SETTINGS", "/tmp/custom.json")
	t.Setenv("RAILGUARD_SHELL_TOOL", "shell")
	t.Setenv("RAILGUARD_NO_DEFAULTS", "true")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if env.GlobalSettingsPath() != "/tmp/custom.json" {
		t.Errorf("settings override ignored: %s", env.GlobalSettingsPath())
	}
	if env.ShellTool != "shell" || !env.NoDefaults {
		t.Errorf("unexpected env: %+v", env)
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"RAILGUARD_SHELL_TOOL", "RAILGUARD_SETTINGS"} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unsetenv: %v", err)
		}
	}

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if env.ShellTool != "bash" {
		t.Errorf("expected bash default, got %q", env.ShellTool)
	}
	if filepath.Base(env.GlobalSettingsPath()) != "settings.json" {
		t.Errorf("unexpected settings path %s", env.GlobalSettingsPath())
	}
}
