package core

import (
	"strings"

	"github.com/klauern/railguard/internal/config"
	"github.com/klauern/railguard/internal/constants"
)

// Extractor pulls the string a rule pattern is matched against out of a
// tool invocation.
type Extractor struct {
	// ShellTool is the tool whose "command" field the command context reads.
	ShellTool string
}

// DefaultExtractor treats "bash" as the shell tool.
var DefaultExtractor = Extractor{ShellTool: constants.ToolBash}

// Extract returns the context string, absent when the event doesn't carry it.
func (x Extractor) Extract(ctx config.RuleContext, toolName string, input ToolInput) (string, bool) {
	switch ctx {
	case config.ContextToolName:
		if toolName == "" {
			return "", false
		}
		return toolName, true
	case config.ContextFileName:
		return input.FirstString("path", "file_path")
	case config.ContextFileContent:
		return input.FirstString("content", "new_string", "newText")
	case config.ContextCommand:
		shell := x.ShellTool
		if shell == "" {
			shell = constants.ToolBash
		}
		if !strings.EqualFold(toolName, shell) {
			return "", false
		}
		return input.String("command")
	default:
		return "", false
	}
}

// Extract uses DefaultExtractor.
func Extract(ctx config.RuleContext, toolName string, input ToolInput) (string, bool) {
	return DefaultExtractor.Extract(ctx, toolName, input)
}
