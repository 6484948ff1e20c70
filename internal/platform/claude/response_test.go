package claude

import (
	"encoding/json"
	"testing"

	"github.com/brads3290/cchooks"
)

func TestResponseJSON(t *testing.T) {
	tests := []struct {
		name string
		resp interface{}
		want string
	}{
		{
			name: "block with context",
			resp: BlockWithContext("Blocked: use fd", "fd is installed"),
			want: `{"decision":"block","reason":"Blocked: use fd","hookSpecificOutput":{"hookEventName":"PreToolUse","additionalContext":"fd is installed"}}`,
		},
		{
			name: "block without context",
			resp: BlockWithContext("Blocked: use fd", ""),
			want: `{"decision":"block","reason":"Blocked: use fd"}`,
		},
		{
			name: "approve with output",
			resp: ApproveWithOutput("formatted main.go", "ctx"),
			want: `{"decision":"approve","systemMessage":"formatted main.go","hookSpecificOutput":{"hookEventName":"PreToolUse","additionalContext":"ctx"}}`,
		},
		{
			name: "plain approve",
			resp: ApproveWithOutput("", ""),
			want: `{"decision":"approve"}`,
		},
		{
			name: "allow with output",
			resp: AllowWithOutput("formatted", "extra context"),
			want: `{"systemMessage":"formatted","hookSpecificOutput":{"hookEventName":"PostToolUse","additionalContext":"extra context"}}`,
		},
		{
			name: "plain allow",
			resp: AllowWithOutput("", ""),
			want: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.resp)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("json = %s\nwant   %s", got, tt.want)
			}
		})
	}
}

func TestPlainResponsesAreCchooksTypes(t *testing.T) {
	if _, ok := ApproveWithOutput("", "").(*cchooks.PreToolUseResponse); !ok {
		t.Error("empty approval should be a plain cchooks response")
	}
	if _, ok := AllowWithOutput("", "").(*cchooks.PostToolUseResponse); !ok {
		t.Error("empty allow should be a plain cchooks response")
	}
}

func TestResponsesSatisfyInterfaces(t *testing.T) {
	var _ cchooks.PreToolUseResponseInterface = BlockWithContext("x", "")
	var _ cchooks.PreToolUseResponseInterface = ApproveWithOutput("x", "")
	var _ cchooks.PostToolUseResponseInterface = AllowWithOutput("x", "")
}
