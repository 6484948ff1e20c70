// Package cursor adapts railguard to Cursor hooks: the hooks.json file and
// the JSON stdin/stdout protocol Cursor speaks with hook commands.
package cursor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Event names for Cursor hooks
const (
	BeforeShellExecution = "beforeShellExecution"
	BeforeMCPExecution   = "beforeMCPExecution"
	AfterFileEdit        = "afterFileEdit"
	BeforeReadFile       = "beforeReadFile"
	BeforeSubmitPrompt   = "beforeSubmitPrompt"
	Stop                 = "stop"
)

// Permission values understood by Cursor.
const (
	PermissionAllow = "allow"
	PermissionDeny  = "deny"
	PermissionAsk   = "ask"
)

// HookInput represents the JSON input received from Cursor
type HookInput struct {
	ConversationID string   `json:"conversation_id"`
	GenerationID   string   `json:"generation_id"`
	HookEventName  string   `json:"hook_event_name"`
	WorkspaceRoots []string `json:"workspace_roots"`

	// beforeShellExecution
	Command string `json:"command,omitempty"`
	CWD     string `json:"cwd,omitempty"`

	// beforeMCPExecution
	ToolName  string `json:"tool_name,omitempty"`
	ToolInput string `json:"tool_input,omitempty"`
	URL       string `json:"url,omitempty"`

	// afterFileEdit, beforeReadFile
	FilePath string `json:"file_path,omitempty"`
	Content  string `json:"content,omitempty"`

	// afterFileEdit
	Edits []Edit `json:"edits,omitempty"`

	// beforeSubmitPrompt
	Prompt      string       `json:"prompt,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	// stop
	Status string `json:"status,omitempty"`
}

// Edit represents a file edit operation
type Edit struct {
	OldString string `json:"old_string"`
	NewString string `json:"new_string"`
}

// Attachment represents a prompt attachment
type Attachment struct {
	Type     string `json:"type"` // "file" | "rule"
	FilePath string `json:"file_path"`
}

// HookOutput represents the JSON response to Cursor
type HookOutput struct {
	Permission   string `json:"permission,omitempty"`
	UserMessage  string `json:"userMessage,omitempty"`
	AgentMessage string `json:"agentMessage,omitempty"`
	Continue     *bool  `json:"continue,omitempty"` // beforeSubmitPrompt only
}

// Config represents the Cursor hooks.json configuration file
type Config struct {
	Version int                  `json:"version"`
	Hooks   map[string][]HookDef `json:"hooks"`
}

// HookDef represents a single hook definition in the config
type HookDef struct {
	Command string `json:"command"`
}

// NewConfig creates a new Cursor hooks config with version 1
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Hooks:   make(map[string][]HookDef),
	}
}

// LoadConfig reads hooks.json. A missing file yields an empty config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - controlled config path
	if os.IsNotExist(err) {
		return NewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Hooks == nil {
		cfg.Hooks = make(map[string][]HookDef)
	}
	return cfg, nil
}

// Save writes the config to path, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal hooks config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// AddHook adds a hook command to the specified event. It returns false if
// the command is already registered.
func (c *Config) AddHook(event, command string) bool {
	if c.HasHook(event, command) {
		return false
	}
	if c.Hooks == nil {
		c.Hooks = make(map[string][]HookDef)
	}
	c.Hooks[event] = append(c.Hooks[event], HookDef{Command: command})
	return true
}

// RemoveHooks drops every command for which match returns true and returns
// the number removed. Events left without hooks are deleted.
func (c *Config) RemoveHooks(match func(command string) bool) int {
	removed := 0
	for event, hooks := range c.Hooks {
		kept := hooks[:0]
		for _, h := range hooks {
			if match(h.Command) {
				removed++
				continue
			}
			kept = append(kept, h)
		}
		if len(kept) == 0 {
			delete(c.Hooks, event)
		} else {
			c.Hooks[event] = kept
		}
	}
	return removed
}

// HasHook checks if a hook command exists for the specified event
func (c *Config) HasHook(event, command string) bool {
	for _, hook := range c.Hooks[event] {
		if hook.Command == command {
			return true
		}
	}
	return false
}
