package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"
)

// Rule file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FormatForPath returns the rule file format implied by the file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported rule file extension: %s", filepath.Ext(path))
	}
}

// ParseRuleFile reads and decodes a rule file, picking the decoder by extension.
func ParseRuleFile(path string) ([]RuleGroup, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 - rule file paths come from fixed lookup locations or the CLI
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	groups, err := ParseRules(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return groups, nil
}

// ParseRules decodes rule groups from data. JSON and YAML accept either a
// bare list of groups or a {"rules": [...]} table; TOML requires the table.
func ParseRules(data []byte, format string) ([]RuleGroup, error) {
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var groups []RuleGroup
			if err := json.Unmarshal(trimmed, &groups); err != nil {
				return nil, err
			}
			return groups, nil
		}
		var file RuleFile
		if err := json.Unmarshal(trimmed, &file); err != nil {
			return nil, err
		}
		return file.Rules, nil
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		if node.Content[0].Kind == yaml.SequenceNode {
			var groups []RuleGroup
			if err := node.Decode(&groups); err != nil {
				return nil, err
			}
			return groups, nil
		}
		var file RuleFile
		if err := node.Decode(&file); err != nil {
			return nil, err
		}
		return file.Rules, nil
	case FormatTOML:
		var file RuleFile
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, err
		}
		return file.Rules, nil
	default:
		return nil, fmt.Errorf("unsupported rule format: %s", format)
	}
}

// EncodeRules renders groups in the given format using the table form.
func EncodeRules(groups []RuleGroup, format string) ([]byte, error) {
	file := RuleFile{Rules: groups}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(file, "", "  ")
	case FormatYAML:
		return yaml.Marshal(file)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(file); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported rule format: %s", format)
	}
}
