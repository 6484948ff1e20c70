package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")
	if got, want := ConfigDir(), filepath.Join("/tmp/test-xdg-config", "railguard"); got != want {
		t.Errorf("ConfigDir() = %s, want %s", got, want)
	}
	if got, want := DefaultGlobalSettingsPath(), filepath.Join("/tmp/test-xdg-config", "railguard", "settings.json"); got != want {
		t.Errorf("DefaultGlobalSettingsPath() = %s, want %s", got, want)
	}
	if got, want := DefaultLogPath(), filepath.Join("/tmp/test-xdg-config", "railguard", "logs", "railguard.log"); got != want {
		t.Errorf("DefaultLogPath() = %s, want %s", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got, want := ConfigDir(), filepath.Join(homeDir, ".config", "railguard"); got != want {
		t.Errorf("ConfigDir() = %s, want %s", got, want)
	}
}

func TestFindProjectRules(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"none", nil, ""},
		{"yaml only", []string{"rules.yaml"}, "rules.yaml"},
		{"json wins over yaml", []string{"rules.yaml", "rules.json"}, "rules.json"},
		{"toml last", []string{"rules.toml", "rules.yml"}, "rules.yml"},
		{"unrelated file ignored", []string{"notes.json"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, filepath.Join(dir, ".railguard", f), "[]")
			}
			got, ok := FindProjectRules(dir)
			if tt.want == "" {
				if ok {
					t.Errorf("expected no rules file, got %s", got)
				}
				return
			}
			if want := filepath.Join(dir, ".railguard", tt.want); !ok || got != want {
				t.Errorf("FindProjectRules() = %s, %v; want %s", got, ok, want)
			}
		})
	}
}

func TestFindProjectRulesSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".railguard", "rules.json"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, ok := FindProjectRules(dir); ok {
		t.Error("a directory named rules.json is not a rules file")
	}
}

func TestEnvLogPath(t *testing.T) {
	if got, want := (Env{LogDir: "/var/log/railguard"}).LogPath(), filepath.Join("/var/log/railguard", "railguard.log"); got != want {
		t.Errorf("LogPath() = %s, want %s", got, want)
	}

	t.Setenv("RAILGUARD_NO_DEFAULTS", "maybe")
	if _, err := LoadEnv(); err == nil {
		t.Error("expected an error for a malformed boolean")
	}
}
