// Package core implements the rule engine: group activation, context
// extraction, rule matching, policy decisions, automation commands and the
// lifecycle dispatcher tying them together.
package core

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/klauern/railguard/internal/config"
)

// ConfigProvider resolves the rule groups that apply to a directory.
// *config.Store satisfies it.
type ConfigProvider interface {
	GetConfig(cwd string) config.ResolvedConfig
}

// Options configures an Engine. Every field is optional.
type Options struct {
	// ShellTool is the tool name the command context applies to.
	ShellTool string
	Runner    CommandRunner
	// Confirmer is attached only when an interactive surface exists; a nil
	// Confirmer makes confirm rules block.
	Confirmer Confirmer
	Notifier  Notifier
	Logger    *EventLogger
	// Activation overrides IsActive, mainly for tests.
	Activation func(pattern, cwd string) bool
}

// Engine dispatches lifecycle events against the resolved configuration.
type Engine struct {
	provider  ConfigProvider
	matcher   *Matcher
	runner    CommandRunner
	confirmer Confirmer
	notifier  Notifier
	logger    *EventLogger
	isActive  func(pattern, cwd string) bool
}

// NewEngine creates an Engine reading rules from provider.
func NewEngine(provider ConfigProvider, opts Options) *Engine {
	e := &Engine{
		provider:  provider,
		matcher:   NewMatcher(opts.ShellTool),
		runner:    opts.Runner,
		confirmer: opts.Confirmer,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		isActive:  opts.Activation,
	}
	if e.runner == nil {
		e.runner = ShellRunner{}
	}
	if e.isActive == nil {
		e.isActive = IsActive
	}
	return e
}

// HasUI reports whether a confirmation capability is attached.
func (e *Engine) HasUI() bool {
	return e.confirmer != nil
}

// Dispatch evaluates ev and returns the effect for the host. Only tool_call
// results may carry a block. Aborted tool results, turn ends and agent ends
// skip every rule.
func (e *Engine) Dispatch(ctx context.Context, ev LifecycleEvent) *Result {
	ec := NewEvaluationContext(ev)
	res := &Result{EvaluationID: ec.ID, Event: ec.Event}

	if ec.Aborted {
		res.Skipped = true
		e.logStep(ec, "skipped_aborted", "", nil)
		return res
	}
	if ctx.Err() != nil {
		res.Skipped = true
		e.logStep(ec, "skipped_canceled", "", nil)
		return res
	}

	groups := e.activeGroups(ec)
	e.logStep(ec, "dispatch", "", map[string]interface{}{
		"active_groups": len(groups),
		"tool_input":    map[string]interface{}(ec.ToolInput),
	})

	if ec.Event == ToolCall {
		if e.evaluatePolicy(ctx, groups, ec, res) {
			return res
		}
	}
	e.runAutomations(ctx, groups, ec, res)
	e.report(res)
	return res
}

// ToolCall dispatches a pre-execution event and returns the block, if any.
func (e *Engine) ToolCall(ctx context.Context, ev ToolCallEvent) *Block {
	return e.Dispatch(ctx, ev).Block
}

// ToolResult dispatches a post-execution event.
func (e *Engine) ToolResult(ctx context.Context, ev ToolResultEvent) *Result {
	return e.Dispatch(ctx, ev)
}

func (e *Engine) activeGroups(ec *EvaluationContext) []config.RuleGroup {
	resolved := e.provider.GetConfig(ec.Cwd)
	groups := make([]config.RuleGroup, 0, len(resolved.Groups))
	for _, g := range resolved.Groups {
		if !e.hasRulesFor(g, ec.Event) {
			continue
		}
		if !e.isActive(g.ActivationPattern(), ec.Cwd) {
			continue
		}
		groups = append(groups, g)
	}
	return groups
}

func (e *Engine) hasRulesFor(g config.RuleGroup, ev Event) bool {
	for _, r := range g.Rules {
		if ruleEvent, ok := ResolveEvent(r.Event); ok && ruleEvent == ev {
			return true
		}
	}
	return false
}

// fires reports whether rule is declared for the event and matches it.
func (e *Engine) fires(rule config.Rule, ec *EvaluationContext) bool {
	ruleEvent, ok := ResolveEvent(rule.Event)
	if !ok || ruleEvent != ec.Event {
		return false
	}
	return e.matcher.Matches(rule, ec.ToolName, ec.ToolInput)
}

// evaluatePolicy applies the first matching policy rule. Rules with an
// unrecognised action never match. It returns true when the event is
// blocked.
func (e *Engine) evaluatePolicy(ctx context.Context, groups []config.RuleGroup, ec *EvaluationContext, res *Result) bool {
	for _, g := range groups {
		for i, rule := range g.Rules {
			if !rule.IsPolicy() || !rule.Action.Known() || !e.fires(rule, ec) {
				continue
			}
			res.Matched = append(res.Matched, MatchRef{Group: g.Name, Index: i, Kind: "policy"})

			d := PolicyDecision(rule, g.Name)
			switch d.Kind {
			case DecisionBlock:
				e.notify(d.Reason, SeverityError)
			case DecisionConfirm:
				d = ResolveConfirm(ctx, e.confirmer, confirmTitle(ec), d.Reason)
			}

			e.logStep(ec, "policy_decision", g.Name, map[string]interface{}{
				"rule":     i,
				"action":   string(rule.Action),
				"decision": string(d.Kind),
				"reason":   d.Reason,
				"has_ui":   e.HasUI(),
			})

			if d.Kind == DecisionBlock {
				res.Block = blockResult(d.Reason)
				return true
			}
			return false
		}
	}
	return false
}

func (e *Engine) runAutomations(ctx context.Context, groups []config.RuleGroup, ec *EvaluationContext, res *Result) {
	for _, g := range groups {
		for i, rule := range g.Rules {
			if !rule.IsAutomation() || !e.fires(rule, ec) {
				continue
			}
			if ctx.Err() != nil {
				res.Skipped = true
				e.logStep(ec, "skipped_canceled", g.Name, map[string]interface{}{"rule": i})
				return
			}

			out := e.runRule(ctx, g.Name, i, rule, ec)
			if out.Run.Canceled {
				res.Skipped = true
				return
			}
			res.Matched = append(res.Matched, MatchRef{Group: g.Name, Index: i, Kind: "automation"})

			if out.Output != "" {
				res.Outputs = append(res.Outputs, out.Output)
			}
			if out.AdditionalContext != "" {
				res.AdditionalContext = append(res.AdditionalContext, out.AdditionalContext)
			}
			if out.SystemMessage != "" {
				res.SystemMessages = append(res.SystemMessages, out.SystemMessage)
			}
			if out.Error != "" {
				res.Errors = append(res.Errors, out.Error)
				e.notify(out.Error, SeverityWarning)
			}

			if ec.Event != ToolCall {
				continue
			}
			d := out.Decision()
			if d.Kind == DecisionConfirm {
				d = ResolveConfirm(ctx, e.confirmer, confirmTitle(ec), d.Reason)
			}
			if d.Kind == DecisionBlock {
				res.Block = blockResult(d.Reason)
				e.notify(d.Reason, SeverityError)
				return
			}
		}
	}
}

func (e *Engine) runRule(ctx context.Context, group string, index int, rule config.Rule, ec *EvaluationContext) AutomationOutcome {
	command := Substitute(rule.Command, ec.Vars())
	stdin, err := json.Marshal(NewHookInput(ec))
	if err != nil {
		stdin = nil
	}

	run := e.runner.Run(ctx, CommandSpec{
		Command: command,
		Dir:     commandDir(rule.Cwd, ec.Cwd),
		Stdin:   stdin,
		Timeout: rule.TimeoutDuration(),
		Env:     CommandEnv(ec),
	})
	out := InterpretCommand(ec, rule, run)

	e.logStep(ec, "automation", group, map[string]interface{}{
		"rule":      index,
		"command":   command,
		"exit_code": run.ExitCode,
		"timed_out": run.TimedOut,
		"canceled":  run.Canceled,
		"duration":  run.Duration.String(),
		"decision":  string(out.Decision().Kind),
		"error":     out.Error,
	})
	return out
}

// report surfaces the concatenated outputs of all automation rules.
func (e *Engine) report(res *Result) {
	if len(res.Outputs) > 0 {
		e.notify(strings.Join(res.Outputs, "\n"), SeverityInfo)
	}
	for _, msg := range res.SystemMessages {
		e.notify(msg, SeverityInfo)
	}
}

func (e *Engine) notify(message string, severity Severity) {
	if e.notifier == nil || message == "" {
		return
	}
	e.notifier.Notify(message, severity)
}
