package core

import (
	"context"
	"fmt"

	"github.com/klauern/railguard/internal/config"
)

// Block reasons surfaced to the host.
const (
	BlockedPrefix      = "Blocked: "
	DeniedReason       = BlockedPrefix + "User denied dangerous operation"
	noUIReasonTemplate = BlockedPrefix + "%s (no UI for confirmation)"
)

func ruleReason(rule config.Rule, group string) string {
	if rule.Reason != "" {
		return rule.Reason
	}
	return fmt.Sprintf("policy rule in group %s", group)
}

// PolicyDecision maps a matched policy rule to its unresolved decision.
func PolicyDecision(rule config.Rule, group string) Decision {
	switch rule.Action {
	case config.ActionBlock:
		return Decision{Kind: DecisionBlock, Reason: BlockedPrefix + ruleReason(rule, group)}
	case config.ActionConfirm:
		return Decision{Kind: DecisionConfirm, Reason: ruleReason(rule, group)}
	default:
		return Decision{Kind: DecisionAllow}
	}
}

// ResolveConfirm asks the confirmer to approve a confirm decision. Without a
// confirmer it blocks and never prompts.
func ResolveConfirm(ctx context.Context, confirmer Confirmer, title, reason string) Decision {
	if confirmer == nil {
		return Decision{Kind: DecisionBlock, Reason: fmt.Sprintf(noUIReasonTemplate, reason)}
	}
	ok, err := confirmer.Confirm(ctx, title, reason)
	if err != nil || !ok {
		return Decision{Kind: DecisionBlock, Reason: DeniedReason}
	}
	return Decision{Kind: DecisionAllow}
}

// confirmTitle names the operation awaiting confirmation.
func confirmTitle(ec *EvaluationContext) string {
	if cmd, ok := ec.ToolInput.String("command"); ok && cmd != "" {
		return fmt.Sprintf("Allow %s: %s?", ec.ToolName, cmd)
	}
	if p := ec.FilePath(); p != "" {
		return fmt.Sprintf("Allow %s on %s?", ec.ToolName, p)
	}
	return fmt.Sprintf("Allow %s?", ec.ToolName)
}
