package config

import (
	"os"
	"path/filepath"

	"github.com/klauern/railguard/internal/constants"
)

// ConfigDir returns the XDG configuration directory for railguard.
func ConfigDir() string {
	baseDir := os.Getenv("XDG_CONFIG_HOME")
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory if home directory cannot be determined
			baseDir = ".config"
		} else {
			baseDir = filepath.Join(homeDir, ".config")
		}
	}
	return filepath.Join(baseDir, constants.BinaryName)
}

// DefaultGlobalSettingsPath returns the user-wide settings document path.
func DefaultGlobalSettingsPath() string {
	return filepath.Join(ConfigDir(), constants.SettingsFileName)
}

// DefaultLogPath returns the rotating event log path.
func DefaultLogPath() string {
	return filepath.Join(ConfigDir(), constants.LogsSubDir, constants.DefaultLogFile)
}

// ProjectRulesCandidates lists the project rule file locations for dir in
// lookup order.
func ProjectRulesCandidates(dir string) []string {
	base := filepath.Join(dir, constants.ProjectDir, constants.ProjectRulesBase)
	paths := make([]string, 0, len(constants.ProjectRulesExtensions))
	for _, ext := range constants.ProjectRulesExtensions {
		paths = append(paths, base+ext)
	}
	return paths
}

// FindProjectRules returns the first existing project rule file in dir.
func FindProjectRules(dir string) (string, bool) {
	for _, p := range ProjectRulesCandidates(dir) {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}
