// Package claude adapts railguard to Claude Code hooks: settings.json
// installation and the cchooks stdin/stdout protocol.
package claude

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauern/railguard/internal/constants"
	"github.com/klauern/railguard/internal/core"
	"github.com/klauern/railguard/internal/platform"
)

// ClaudeCodePlatform implements Platform for Claude Code
type ClaudeCodePlatform struct {
	// RunnerFactory overrides the cchooks runner, mainly for tests.
	RunnerFactory RunnerFactory
	// HomeDir overrides the user home directory.
	HomeDir string
}

// New creates a new Claude Code platform instance
func New() *ClaudeCodePlatform {
	return &ClaudeCodePlatform{RunnerFactory: DefaultRunnerFactory}
}

// Type returns the platform type
func (p *ClaudeCodePlatform) Type() platform.Type {
	return platform.ClaudeCode
}

// Name returns the human-readable platform name
func (p *ClaudeCodePlatform) Name() string {
	return "Claude Code"
}

// ConfigPath returns the path to the Claude Code settings.json file
func (p *ClaudeCodePlatform) ConfigPath(scope platform.Scope, projectDir string) (string, error) {
	if scope == platform.ScopeProject {
		return filepath.Join(projectDir, constants.ClaudeDir, "settings.json"), nil
	}
	home := p.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
	}
	return filepath.Join(home, constants.ClaudeDir, "settings.json"), nil
}

// MapEventFromGeneric maps a lifecycle event to its Claude Code name
func (p *ClaudeCodePlatform) MapEventFromGeneric(event core.Event) []string {
	info, ok := core.LookupEvent(event)
	if !ok {
		return nil
	}
	return info.ClaudeAliases
}

// MapEventToGeneric maps a Claude Code event name to its lifecycle event
func (p *ClaudeCodePlatform) MapEventToGeneric(platformEvent string) (core.Event, bool) {
	for _, info := range core.AllEvents() {
		for _, alias := range info.ClaudeAliases {
			if alias == platformEvent {
				return info.Event, true
			}
		}
	}
	return "", false
}

// AllEvents returns all events supported by Claude Code
func (p *ClaudeCodePlatform) AllEvents() []platform.PlatformEvent {
	return platform.EventsFor(func(i core.EventInfo) []string { return i.ClaudeAliases }, false)
}

// HookCommandLine returns the settings command for a Claude Code event.
func HookCommandLine(binary, event string) string {
	return fmt.Sprintf("%s run --platform claudecode --event %s", binary, event)
}

// Install adds a railguard hook for every Claude Code event.
func (p *ClaudeCodePlatform) Install(configPath, binary string) (int, error) {
	settings, err := LoadSettings(configPath)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, ev := range p.AllEvents() {
		matcher := ""
		if ev.GenericEvent == core.ToolCall || ev.GenericEvent == core.ToolResult {
			matcher = "*"
		}
		if settings.AddHook(ev.Name, matcher, HookCommandLine(binary, ev.Name), nil) {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, SaveSettings(configPath, settings)
}

// Uninstall removes every railguard hook from the settings file.
func (p *ClaudeCodePlatform) Uninstall(configPath string) (int, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return 0, nil
	}
	settings, err := LoadSettings(configPath)
	if err != nil {
		return 0, err
	}
	removed := settings.RemoveHooks(IsRailguardCommand)
	if removed == 0 {
		return 0, nil
	}
	return removed, SaveSettings(configPath, settings)
}

// Handle runs one hook invocation through an Adapter.
func (p *ClaudeCodePlatform) Handle(ctx context.Context, d platform.Dispatcher, hostEvent string, in io.Reader, out io.Writer) error {
	a := NewAdapter(d)
	if p.RunnerFactory != nil {
		a.RunnerFactory = p.RunnerFactory
	}
	return a.Run(ctx, hostEvent, in, out)
}
