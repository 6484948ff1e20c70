package config

import (
	"time"

	"github.com/klauern/railguard/internal/constants"
)

// RuleContext selects the string a rule pattern is matched against.
type RuleContext string

// Supported rule contexts
const (
	ContextToolName    RuleContext = "tool_name"
	ContextFileName    RuleContext = "file_name"
	ContextFileContent RuleContext = "file_content"
	ContextCommand     RuleContext = "command"
)

// AllContexts returns every supported rule context in display order.
func AllContexts() []RuleContext {
	return []RuleContext{ContextToolName, ContextFileName, ContextFileContent, ContextCommand}
}

// Action is the access decision of a policy rule.
type Action string

// Policy actions
const (
	ActionAllow   Action = "allow"
	ActionBlock   Action = "block"
	ActionConfirm Action = "confirm"
)

// Known reports whether a is one of the policy actions.
func (a Action) Known() bool {
	switch a {
	case ActionAllow, ActionBlock, ActionConfirm:
		return true
	}
	return false
}

// Rule is either a policy rule (Action set) or an automation rule (Command
// set). Both flavours share the event/context/pattern predicates.
type Rule struct {
	Event    string      `json:"event,omitempty" yaml:"event,omitempty" toml:"event,omitempty" validate:"omitempty,railguard_event"`
	Context  RuleContext `json:"context,omitempty" yaml:"context,omitempty" toml:"context,omitempty" validate:"omitempty,oneof=tool_name file_name file_content command"`
	Pattern  string      `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty" validate:"omitempty,railguard_regexp"`
	Includes string      `json:"includes,omitempty" yaml:"includes,omitempty" toml:"includes,omitempty" validate:"omitempty,railguard_regexp"`
	Excludes string      `json:"excludes,omitempty" yaml:"excludes,omitempty" toml:"excludes,omitempty" validate:"omitempty,railguard_regexp"`

	// Policy flavour
	Action Action `json:"action,omitempty" yaml:"action,omitempty" toml:"action,omitempty" validate:"omitempty,oneof=allow block confirm"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty" toml:"reason,omitempty"`

	// Automation flavour
	Command string `json:"command,omitempty" yaml:"command,omitempty" toml:"command,omitempty"`
	Cwd     string `json:"cwd,omitempty" yaml:"cwd,omitempty" toml:"cwd,omitempty"`
	Timeout int    `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty" validate:"gte=0"`
	Notify  *bool  `json:"notify,omitempty" yaml:"notify,omitempty" toml:"notify,omitempty"`
}

// IsPolicy reports whether the rule makes an access decision.
func (r Rule) IsPolicy() bool {
	return r.Action != ""
}

// IsAutomation reports whether the rule runs a command.
func (r Rule) IsAutomation() bool {
	return r.Action == "" && r.Command != ""
}

// TimeoutDuration returns the command timeout, defaulting to 30s.
func (r Rule) TimeoutDuration() time.Duration {
	if r.Timeout <= 0 {
		return time.Duration(constants.DefaultTimeoutMs) * time.Millisecond
	}
	return time.Duration(r.Timeout) * time.Millisecond
}

// ShouldNotify reports whether command output is surfaced (default true).
func (r Rule) ShouldNotify() bool {
	return r.Notify == nil || *r.Notify
}

// RuleGroup is a named, independently activated bundle of rules. Pattern is
// a file glob probed in the working directory, or "*" for always.
type RuleGroup struct {
	Name    string `json:"group" yaml:"group" toml:"group" validate:"required"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty" validate:"omitempty,railguard_glob"`
	Rules   []Rule `json:"rules" yaml:"rules" toml:"rules" validate:"dive"`
}

// ActivationPattern returns the group pattern with the empty value read as "*".
func (g RuleGroup) ActivationPattern() string {
	if g.Pattern == "" {
		return "*"
	}
	return g.Pattern
}

// RuleFile is the table form of a rule file. JSON and YAML files may also
// hold a bare list of groups.
type RuleFile struct {
	Rules []RuleGroup `json:"rules" yaml:"rules" toml:"rules"`
}

func cloneGroups(groups []RuleGroup) []RuleGroup {
	if groups == nil {
		return nil
	}
	out := make([]RuleGroup, len(groups))
	for i, g := range groups {
		out[i] = g
		out[i].Rules = append([]Rule(nil), g.Rules...)
	}
	return out
}

// MergeGroups layers overlay onto base by group name. Rules of a group seen
// in base are appended after base's rules; new groups are appended in
// overlay order. The base group's activation pattern is kept.
func MergeGroups(base, overlay []RuleGroup) []RuleGroup {
	out := cloneGroups(base)
	if out == nil {
		out = []RuleGroup{}
	}
	index := make(map[string]int, len(out))
	for i, g := range out {
		if _, seen := index[g.Name]; !seen {
			index[g.Name] = i
		}
	}
	for _, g := range overlay {
		if i, ok := index[g.Name]; ok {
			out[i].Rules = append(out[i].Rules, g.Rules...)
			continue
		}
		index[g.Name] = len(out)
		g.Rules = append([]Rule(nil), g.Rules...)
		out = append(out, g)
	}
	return out
}
