package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/railguard/internal/constants"
)

// cursorEnvVars are set by Cursor when it runs hook commands.
var cursorEnvVars = []string{
	"CURSOR_AGENT_ROOT",
	"CURSOR_WORKSPACE_ID",
	"CURSOR_SESSION_ID",
	"CURSOR_CLI_HOST",
	"CURSOR_HOOK_ID",
}

// DefaultDetector implements platform auto-detection
type DefaultDetector struct {
	// Override is the RAILGUARD_PLATFORM value, if any.
	Override string
	// Dir is probed for .cursor and .claude directories.
	Dir string
	// Home is probed for ~/.cursor/hooks.json.
	Home string
	// Getenv reads the environment; nil uses os.Getenv.
	Getenv func(string) string
}

// NewDetector creates a detector for the process environment. override is
// the configured platform, usually config.Env.Platform.
func NewDetector(override string) *DefaultDetector {
	dir, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	return &DefaultDetector{Override: override, Dir: dir, Home: home}
}

// DetectType attempts to detect the current platform type
func (d *DefaultDetector) DetectType() (Type, error) {
	// 1. Explicit override
	if strings.TrimSpace(d.Override) != "" {
		return TypeFromString(d.Override)
	}

	// 2. Cursor exports its own variables to hook processes
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range cursorEnvVars {
		if strings.TrimSpace(getenv(key)) != "" {
			return Cursor, nil
		}
	}

	// 3. Project directories
	if d.Dir != "" {
		if isDir(filepath.Join(d.Dir, constants.CursorDir)) {
			return Cursor, nil
		}
		if isDir(filepath.Join(d.Dir, constants.ClaudeDir)) {
			return ClaudeCode, nil
		}
	}

	// 4. Cursor config in the home directory
	if d.Home != "" {
		if _, err := os.Stat(filepath.Join(d.Home, constants.CursorDir, "hooks.json")); err == nil {
			return Cursor, nil
		}
	}

	// 5. Default to Claude Code
	return ClaudeCode, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// TypeFromString converts a string to a platform Type
func TypeFromString(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cursor":
		return Cursor, nil
	case "claudecode", "claude", "claude-code":
		return ClaudeCode, nil
	default:
		return "", fmt.Errorf("unknown platform: %s (valid: cursor, claudecode)", s)
	}
}
