package core

import (
	"regexp"
	"strings"
)

// Placeholder names recognised in automation commands.
const (
	VarFile = "file"
	VarTool = "tool"
	VarCwd  = "cwd"
)

var placeholderPattern = regexp.MustCompile(`\$\{(file|tool|cwd)\}`)

// Substitute replaces ${file}, ${tool} and ${cwd} in command with values
// from vars. Placeholders without a value become the empty string; any other
// ${...} is left for the shell.
func Substitute(command string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(command, func(m string) string {
		key := strings.TrimSuffix(strings.TrimPrefix(m, "${"), "}")
		return vars[key]
	})
}

// Vars returns the placeholder values for an evaluation.
func (ec *EvaluationContext) Vars() map[string]string {
	return map[string]string{
		VarFile: ec.FilePath(),
		VarTool: ec.ToolName,
		VarCwd:  ec.Cwd,
	}
}
