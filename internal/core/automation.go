package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/klauern/railguard/internal/config"
	"github.com/klauern/railguard/internal/constants"
)

// AutomationOutcome is the interpreted result of one automation rule run.
type AutomationOutcome struct {
	Run CommandOutcome
	// Block is the full "Blocked: ..." reason when the run blocks a tool_call.
	Block string
	// Ask is set when the command requested user confirmation.
	Ask               string
	Output            string
	AdditionalContext string
	SystemMessage     string
	Error             string
}

// Decision summarises the outcome as an executor decision.
func (o AutomationOutcome) Decision() Decision {
	switch {
	case o.Block != "":
		return Decision{Kind: DecisionBlock, Reason: o.Block}
	case o.Ask != "":
		return Decision{Kind: DecisionConfirm, Reason: o.Ask}
	default:
		run := o.Run
		return Decision{Kind: DecisionRunCommand, Run: &run}
	}
}

// isEditTool reports whether exit code 2 is ignored for the tool so edits
// always go through.
func isEditTool(toolName string) bool {
	switch strings.ToLower(toolName) {
	case constants.ToolEdit, constants.ToolMultiEdit, constants.ToolWrite:
		return true
	}
	return false
}

// InterpretCommand applies exit-code and stdout semantics to a finished run.
func InterpretCommand(ec *EvaluationContext, rule config.Rule, run CommandOutcome) AutomationOutcome {
	out := AutomationOutcome{Run: run}
	blockable := ec.Event == ToolCall

	switch {
	case run.TimedOut, run.Canceled:
		out.Error = fmt.Sprintf("%s: %v", run.Command, run.Err)

	case run.Err != nil:
		out.Error = fmt.Sprintf("failed to run %s: %v", run.Command, run.Err)

	case run.ExitCode == 0:
		interpretStdout(&out, rule, run, blockable)

	case run.ExitCode == constants.ExitCodeBlocking && blockable && !isEditTool(ec.ToolName):
		reason := strings.TrimSpace(run.Stderr)
		if reason == "" {
			reason = fmt.Sprintf("%s exited with status 2", run.Command)
		}
		out.Block = BlockedPrefix + reason

	default:
		msg := fmt.Sprintf("%s exited with status %d", run.Command, run.ExitCode)
		if stderr := strings.TrimSpace(run.Stderr); stderr != "" {
			msg += ": " + stderr
		}
		out.Error = msg
	}
	return out
}

func interpretStdout(out *AutomationOutcome, rule config.Rule, run CommandOutcome, blockable bool) {
	parsed, err := ParseHookOutput(run.Stdout)
	if err != nil || parsed == nil {
		if rule.ShouldNotify() {
			out.Output = strings.TrimSpace(run.Stdout)
		}
		return
	}

	out.SystemMessage = parsed.SystemMessage
	out.AdditionalContext = parsed.AdditionalContext()

	stop := ""
	switch {
	case parsed.Continue != nil && !*parsed.Continue:
		stop = firstNonEmpty(parsed.StopReason, parsed.Reason, fmt.Sprintf("stopped by %s", run.Command))
	case strings.EqualFold(parsed.Decision, "block"):
		stop = firstNonEmpty(parsed.Reason, fmt.Sprintf("blocked by %s", run.Command))
	}

	switch parsed.PermissionDecision() {
	case "deny":
		if stop == "" {
			stop = firstNonEmpty(parsed.PermissionReason(), fmt.Sprintf("denied by %s", run.Command))
		}
	case "ask":
		if stop == "" && blockable {
			out.Ask = firstNonEmpty(parsed.PermissionReason(), fmt.Sprintf("%s requests confirmation", run.Command))
		}
	}

	if stop == "" {
		if rule.ShouldNotify() && parsed.UserMessage != "" {
			out.Output = parsed.UserMessage
		}
		return
	}
	if blockable {
		out.Block = BlockedPrefix + stop
		return
	}
	// Post-execution events can't be blocked; the reason is fed back instead.
	out.Output = stop
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// commandDir resolves a rule's working directory against the event cwd.
func commandDir(ruleDir, cwd string) string {
	if ruleDir == "" {
		return cwd
	}
	if filepath.IsAbs(ruleDir) {
		return ruleDir
	}
	return filepath.Join(cwd, ruleDir)
}
