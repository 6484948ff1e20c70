package core

import (
	"context"
	"sync"

	"github.com/klauern/railguard/internal/config"
)

// StaticConfig is a ConfigProvider returning the same groups for every
// directory.
type StaticConfig []config.RuleGroup

// GetConfig returns the groups regardless of cwd.
func (s StaticConfig) GetConfig(_ string) config.ResolvedConfig {
	return config.ResolvedConfig{Groups: s}
}

// MockCommandRunner implements CommandRunner for testing
type MockCommandRunner struct {
	Specs     []CommandSpec
	Responses map[string]CommandOutcome
	// Default is returned for commands without a configured response.
	Default CommandOutcome
	mu      sync.Mutex
}

// NewMockCommandRunner creates a runner where every command succeeds silently.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{Responses: make(map[string]CommandOutcome)}
}

// Run records spec and returns the configured outcome.
func (m *MockCommandRunner) Run(_ context.Context, spec CommandSpec) CommandOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Specs = append(m.Specs, spec)
	out, ok := m.Responses[spec.Command]
	if !ok {
		out = m.Default
	}
	out.Command = spec.Command
	return out
}

// SetResponse configures the outcome for a specific command
func (m *MockCommandRunner) SetResponse(command string, out CommandOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[command] = out
}

// Commands returns the executed command strings in order.
func (m *MockCommandRunner) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmds := make([]string, len(m.Specs))
	for i, s := range m.Specs {
		cmds[i] = s.Command
	}
	return cmds
}

// MockConfirmer records confirmation requests and returns a fixed answer.
type MockConfirmer struct {
	Answer bool
	Err    error
	Calls  []string
	mu     sync.Mutex
}

// Confirm records the request.
func (m *MockConfirmer) Confirm(_ context.Context, _ string, message string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, message)
	return m.Answer, m.Err
}

// CallCount returns the number of confirmation requests.
func (m *MockConfirmer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Notification is one recorded notify call.
type Notification struct {
	Message  string
	Severity Severity
}

// MockNotifier records notifications.
type MockNotifier struct {
	Notifications []Notification
	mu            sync.Mutex
}

// Notify records the message.
func (m *MockNotifier) Notify(message string, severity Severity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, Notification{Message: message, Severity: severity})
}

// BySeverity returns the recorded messages of a severity.
func (m *MockNotifier) BySeverity(severity Severity) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, n := range m.Notifications {
		if n.Severity == severity {
			out = append(out, n.Message)
		}
	}
	return out
}
