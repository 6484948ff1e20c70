// Package platform describes the coding-agent hosts railguard plugs into
// and how their hook configuration is located and edited.
package platform

import (
	"context"
	"io"

	"github.com/klauern/railguard/internal/core"
)

// Type represents the platform/IDE type
type Type string

const (
	ClaudeCode Type = "claudecode"
	Cursor     Type = "cursor"
)

// Scope selects between the per-user and per-project host configuration.
type Scope string

const (
	ScopeGlobal  Scope = "global"
	ScopeProject Scope = "project"
)

// Platform represents an AI IDE platform that supports hooks
type Platform interface {
	// Type returns the platform type
	Type() Type

	// Name returns the human-readable platform name
	Name() string

	// ConfigPath returns the path to the hooks configuration file
	ConfigPath(scope Scope, projectDir string) (string, error)

	// MapEventFromGeneric maps a lifecycle event to the host's event name(s)
	MapEventFromGeneric(event core.Event) []string

	// MapEventToGeneric maps a host event name to the lifecycle event
	MapEventToGeneric(platformEvent string) (core.Event, bool)

	// AllEvents returns all events supported by this platform
	AllEvents() []PlatformEvent

	// Install registers the railguard command for every supported event and
	// returns the number of hooks added.
	Install(configPath, binary string) (int, error)

	// Uninstall removes every railguard command and returns how many were
	// removed.
	Uninstall(configPath string) (int, error)

	// Handle reads one host payload from in, dispatches it and writes the
	// host response to out. hostEvent names the event when the payload
	// doesn't.
	Handle(ctx context.Context, d Dispatcher, hostEvent string, in io.Reader, out io.Writer) error
}

// Dispatcher evaluates lifecycle events. *core.Engine satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev core.LifecycleEvent) *core.Result
}

// PlatformEvent represents a platform-specific hook event
type PlatformEvent struct {
	Name         string
	Description  string
	GenericEvent core.Event
	// RequiresStdio is true for hosts speaking a JSON stdin/stdout protocol
	// without exit-code semantics.
	RequiresStdio bool
}

// EventsFor builds the PlatformEvent list of a host from the lifecycle
// event table.
func EventsFor(aliases func(core.EventInfo) []string, stdio bool) []PlatformEvent {
	var out []PlatformEvent
	for _, info := range core.AllEvents() {
		for _, name := range aliases(info) {
			out = append(out, PlatformEvent{
				Name:          name,
				Description:   info.Description,
				GenericEvent:  info.Event,
				RequiresStdio: stdio,
			})
		}
	}
	return out
}

// Detector provides platform auto-detection
type Detector interface {
	DetectType() (Type, error)
}
