package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/klauern/railguard/internal/constants"
)

// Env holds environment overrides, read with the RAILGUARD_ prefix.
type Env struct {
	Settings   string `envconfig:"SETTINGS"`
	ShellTool  string `envconfig:"SHELL_TOOL" default:"bash"`
	Platform   string `envconfig:"PLATFORM"`
	NoDefaults bool   `envconfig:"NO_DEFAULTS"`
	LogDir     string `envconfig:"LOG_DIR"`
}

// LoadEnv processes RAILGUARD_* environment variables.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("railguard", &env); err != nil {
		return Env{ShellTool: constants.ToolBash}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}

// GlobalSettingsPath returns the settings path, honouring RAILGUARD_SETTINGS.
func (e Env) GlobalSettingsPath() string {
	if e.Settings != "" {
		return e.Settings
	}
	return DefaultGlobalSettingsPath()
}

// LogPath returns the event log path, honouring RAILGUARD_LOG_DIR.
func (e Env) LogPath() string {
	if e.LogDir != "" {
		return filepath.Join(e.LogDir, constants.DefaultLogFile)
	}
	return DefaultLogPath()
}
