package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauern/railguard/internal/constants"
)

// ErrNoGlobal is returned when the global settings document is missing or
// carries no rules key.
var ErrNoGlobal = errors.New("no global rules configured")

// GlobalSettings is the user-wide settings document. Keys railguard does
// not own are kept in Other and written back untouched.
type GlobalSettings struct {
	Rules       []RuleGroup            `json:"rules,omitempty"`
	LogRotation LogRotationConfig      `json:"logRotation"`
	Other       map[string]interface{} `json:"-"`

	hasRules bool
}

// HasRules reports whether the document carried a rules key when loaded or
// has had rules assigned since.
func (s *GlobalSettings) HasRules() bool {
	return s.hasRules
}

// SetRules replaces the rule groups held by the document.
func (s *GlobalSettings) SetRules(groups []RuleGroup) {
	s.Rules = groups
	s.hasRules = true
}

// LoadGlobalSettings loads the settings document, returning defaults if the
// file doesn't exist.
func LoadGlobalSettings(settingsPath string) (*GlobalSettings, error) {
	settings := &GlobalSettings{
		LogRotation: DefaultLogRotationConfig(),
		Other:       make(map[string]interface{}),
	}

	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return settings, nil
	}

	data, err := os.ReadFile(settingsPath) // #nosec G304 - controlled settings paths
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	// First unmarshal into a generic map to preserve unknown fields
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	_, settings.hasRules = raw[constants.RulesKey]
	delete(raw, constants.RulesKey)
	delete(raw, constants.LogRotationKey)
	settings.Other = raw

	return settings, nil
}

// SaveGlobalSettings writes the document, merging known and unknown keys.
func SaveGlobalSettings(settingsPath string, settings *GlobalSettings) error {
	dir := filepath.Dir(settingsPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	output := make(map[string]interface{}, len(settings.Other)+2)
	for k, v := range settings.Other {
		output[k] = v
	}
	if settings.hasRules {
		rules := settings.Rules
		if rules == nil {
			rules = []RuleGroup{}
		}
		output[constants.RulesKey] = rules
	}
	output[constants.LogRotationKey] = settings.LogRotation

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(settingsPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// LoadGlobalRules returns the global rule groups, or ErrNoGlobal when the
// document is missing or has no rules key.
func LoadGlobalRules(settingsPath string) ([]RuleGroup, error) {
	settings, err := LoadGlobalSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	if !settings.HasRules() {
		return nil, ErrNoGlobal
	}
	if settings.Rules == nil {
		return []RuleGroup{}, nil
	}
	return settings.Rules, nil
}
