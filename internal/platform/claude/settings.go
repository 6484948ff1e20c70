package claude

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauern/railguard/internal/constants"
)

// HookCommand is one command entry in Claude Code settings.
type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout *int   `json:"timeout,omitempty"`
}

// HookMatcher groups commands under a tool-name matcher.
type HookMatcher struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
}

// Settings is a Claude Code settings.json document. Keys other than
// "hooks" are preserved in Other.
type Settings struct {
	Hooks map[string][]HookMatcher `json:"hooks,omitempty"`
	Other map[string]interface{}   `json:"-"`
}

// LoadSettings reads settingsPath. A missing file yields empty settings.
func LoadSettings(settingsPath string) (*Settings, error) {
	settings := &Settings{
		Hooks: make(map[string][]HookMatcher),
		Other: make(map[string]interface{}),
	}

	data, err := os.ReadFile(settingsPath) // #nosec G304 - controlled settings paths
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	if hooks, ok := raw["hooks"]; ok {
		if err := json.Unmarshal(hooks, &settings.Hooks); err != nil {
			return nil, fmt.Errorf("failed to parse hooks: %w", err)
		}
		if settings.Hooks == nil {
			settings.Hooks = make(map[string][]HookMatcher)
		}
		delete(raw, "hooks")
	}
	for k, v := range raw {
		var value interface{}
		if err := json.Unmarshal(v, &value); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", k, err)
		}
		settings.Other[k] = value
	}
	return settings, nil
}

// SaveSettings writes settings, creating the parent directory.
func SaveSettings(settingsPath string, settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	output := make(map[string]interface{}, len(settings.Other)+1)
	for k, v := range settings.Other {
		output[k] = v
	}
	if len(settings.Hooks) > 0 {
		output["hooks"] = settings.Hooks
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(settingsPath, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// AddHook registers command for event. It returns false when the command
// is already present under the same matcher.
func (s *Settings) AddHook(event, matcher, command string, timeout *int) bool {
	matchers := s.Hooks[event]
	for i, m := range matchers {
		if m.Matcher != matcher {
			continue
		}
		for _, h := range m.Hooks {
			if h.Command == command {
				return false
			}
		}
		matchers[i].Hooks = append(matchers[i].Hooks, HookCommand{Type: "command", Command: command, Timeout: timeout})
		s.Hooks[event] = matchers
		return true
	}
	s.Hooks[event] = append(matchers, HookMatcher{
		Matcher: matcher,
		Hooks:   []HookCommand{{Type: "command", Command: command, Timeout: timeout}},
	})
	return true
}

// RemoveHooks drops every command for which match returns true, pruning
// empty matchers and events. It returns the number removed.
func (s *Settings) RemoveHooks(match func(command string) bool) int {
	removed := 0
	for event, matchers := range s.Hooks {
		var keptMatchers []HookMatcher
		for _, m := range matchers {
			var kept []HookCommand
			for _, h := range m.Hooks {
				if match(h.Command) {
					removed++
					continue
				}
				kept = append(kept, h)
			}
			if len(kept) > 0 {
				m.Hooks = kept
				keptMatchers = append(keptMatchers, m)
			}
		}
		if len(keptMatchers) == 0 {
			delete(s.Hooks, event)
		} else {
			s.Hooks[event] = keptMatchers
		}
	}
	return removed
}

// InstalledEvents returns the events with a railguard command, sorted.
func (s *Settings) InstalledEvents() []string {
	var events []string
	for event, matchers := range s.Hooks {
		if hasRailguard(matchers) {
			events = append(events, event)
		}
	}
	sort.Strings(events)
	return events
}

func hasRailguard(matchers []HookMatcher) bool {
	for _, m := range matchers {
		for _, h := range m.Hooks {
			if IsRailguardCommand(h.Command) {
				return true
			}
		}
	}
	return false
}

// IsRailguardCommand reports whether a settings command invokes railguard.
func IsRailguardCommand(command string) bool {
	return strings.Contains(command, constants.CommandPattern)
}
