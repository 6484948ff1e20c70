package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/core"
)

// NewEventsCmd creates the events command.
func NewEventsCmd() *cli.Command {
	return &cli.Command{
		Name:        "events",
		Usage:       "List lifecycle events and their host aliases",
		Description: `List the lifecycle events rules can target. A rule's event may name the canonical event or any host alias; an empty event means tool_call.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("EVENT", "BLOCKABLE", "CLAUDE CODE", "CURSOR", "DESCRIPTION")
			for _, info := range core.AllEvents() {
				t.Row(
					string(info.Event),
					yesNo(info.Blockable),
					orDash(strings.Join(info.ClaudeAliases, ", ")),
					orDash(strings.Join(info.CursorAliases, ", ")),
					info.Description,
				)
			}
			fmt.Fprintln(stdout(cmd), t.Render())
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
