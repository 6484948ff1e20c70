package core

// DecisionKind enumerates executor outcomes.
type DecisionKind string

// Decision kinds
const (
	DecisionAllow      DecisionKind = "allow"
	DecisionBlock      DecisionKind = "block"
	DecisionConfirm    DecisionKind = "confirm"
	DecisionRunCommand DecisionKind = "run_command"
)

// Decision is the outcome of one matched rule.
type Decision struct {
	Kind   DecisionKind
	Reason string
	// Run is set for DecisionRunCommand.
	Run *CommandOutcome
}

// Block is the interception result returned to the host for a tool_call.
type Block struct {
	Block  bool   `json:"block"`
	Reason string `json:"reason"`
}

// MatchRef identifies a rule that matched during dispatch.
type MatchRef struct {
	Group string `json:"group"`
	Index int    `json:"index"`
	// Kind is "policy" or "automation".
	Kind string `json:"kind"`
}

// Result is what the dispatcher hands back to a host adapter.
type Result struct {
	EvaluationID      string     `json:"evaluation_id"`
	Event             Event      `json:"event"`
	Block             *Block     `json:"block,omitempty"`
	Outputs           []string   `json:"outputs,omitempty"`
	AdditionalContext []string   `json:"additional_context,omitempty"`
	SystemMessages    []string   `json:"system_messages,omitempty"`
	Errors            []string   `json:"errors,omitempty"`
	Matched           []MatchRef `json:"matched,omitempty"`
	Skipped           bool       `json:"skipped,omitempty"`
}

// Blocked reports whether the host action must not run.
func (r *Result) Blocked() bool {
	return r != nil && r.Block != nil && r.Block.Block
}

func blockResult(reason string) *Block {
	return &Block{Block: true, Reason: reason}
}
