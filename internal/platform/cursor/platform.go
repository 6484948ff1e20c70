package cursor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/railguard/internal/constants"
	"github.com/klauern/railguard/internal/core"
	"github.com/klauern/railguard/internal/platform"
)

// CursorPlatform implements Platform for Cursor
type CursorPlatform struct {
	// HomeDir overrides the user home directory.
	HomeDir string
}

// New creates a new Cursor platform instance
func New() *CursorPlatform {
	return &CursorPlatform{}
}

// Type returns the platform type
func (p *CursorPlatform) Type() platform.Type {
	return platform.Cursor
}

// Name returns the human-readable platform name
func (p *CursorPlatform) Name() string {
	return "Cursor"
}

// ConfigPath returns the path to Cursor's hooks.json
func (p *CursorPlatform) ConfigPath(scope platform.Scope, projectDir string) (string, error) {
	if scope == platform.ScopeProject {
		return filepath.Join(projectDir, constants.CursorDir, "hooks.json"), nil
	}
	home := p.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
	}
	return filepath.Join(home, constants.CursorDir, "hooks.json"), nil
}

// MapEventFromGeneric maps a lifecycle event to Cursor event names
func (p *CursorPlatform) MapEventFromGeneric(event core.Event) []string {
	info, ok := core.LookupEvent(event)
	if !ok {
		return nil
	}
	return info.CursorAliases
}

// MapEventToGeneric maps a Cursor event name to its lifecycle event
func (p *CursorPlatform) MapEventToGeneric(platformEvent string) (core.Event, bool) {
	for _, info := range core.AllEvents() {
		for _, alias := range info.CursorAliases {
			if alias == platformEvent {
				return info.Event, true
			}
		}
	}
	return "", false
}

// AllEvents returns all events supported by Cursor
func (p *CursorPlatform) AllEvents() []platform.PlatformEvent {
	return platform.EventsFor(func(i core.EventInfo) []string { return i.CursorAliases }, true)
}

// HookCommandLine returns the hooks.json command for a Cursor event.
func HookCommandLine(binary, event string) string {
	return fmt.Sprintf("%s run --platform cursor --event %s", binary, event)
}

// IsRailguardCommand reports whether a hooks.json command invokes railguard.
func IsRailguardCommand(command string) bool {
	return strings.Contains(command, constants.CommandPattern)
}

// Install adds a railguard hook for every Cursor event.
func (p *CursorPlatform) Install(configPath, binary string) (int, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, ev := range p.AllEvents() {
		if cfg.AddHook(ev.Name, HookCommandLine(binary, ev.Name)) {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, cfg.Save(configPath)
}

// Uninstall removes every railguard hook from hooks.json.
func (p *CursorPlatform) Uninstall(configPath string) (int, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return 0, nil
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return 0, err
	}
	removed := cfg.RemoveHooks(IsRailguardCommand)
	if removed == 0 {
		return 0, nil
	}
	return removed, cfg.Save(configPath)
}

// Handle runs one hook invocation through an Adapter.
func (p *CursorPlatform) Handle(ctx context.Context, d platform.Dispatcher, hostEvent string, in io.Reader, out io.Writer) error {
	return (&Adapter{Dispatcher: d}).Run(ctx, hostEvent, in, out)
}
