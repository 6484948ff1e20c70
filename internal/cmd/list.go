package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/config"
	"github.com/klauern/railguard/internal/core"
)

// NewListCmd creates the list command.
func NewListCmd() *cli.Command {
	return &cli.Command{
		Name:        "list",
		Usage:       "List resolved rule groups",
		Description: `List the rule groups that apply to a directory, the layers they were resolved from and whether each group is active there.`,
		Flags:       []cli.Flag{cwdFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir, err := workDir(cmd)
			if err != nil {
				return err
			}
			env := loadEnv(cmd)
			resolved := newStore(env, notifierFor(cmd)).GetConfig(dir)
			w := stdout(cmd)

			fmt.Fprintf(w, "Rules for %s\n", dir)
			fmt.Fprintf(w, "Sources: %s\n\n", layerSummary(resolved.Layers))
			if len(resolved.Groups) == 0 {
				fmt.Fprintln(w, "No rule groups configured.")
				return nil
			}
			fmt.Fprintln(w, groupTable(resolved.Groups, dir).Render())
			return nil
		},
	}
}

func layerSummary(layers []config.Layer) string {
	if len(layers) == 0 {
		return "none"
	}
	s := ""
	for i, l := range layers {
		if i > 0 {
			s += " + "
		}
		s += string(l.Source)
		if l.Path != "" {
			s += " (" + l.Path + ")"
		}
	}
	return s
}

func groupTable(groups []config.RuleGroup, dir string) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("GROUP", "PATTERN", "ACTIVE", "POLICY", "AUTOMATION")
	for _, g := range groups {
		policies, automations := 0, 0
		for _, r := range g.Rules {
			if r.IsPolicy() {
				policies++
			}
			if r.IsAutomation() {
				automations++
			}
		}
		active := "no"
		if core.IsActive(g.ActivationPattern(), dir) {
			active = "yes"
		}
		t.Row(g.Name, g.ActivationPattern(), active, strconv.Itoa(policies), strconv.Itoa(automations))
	}
	return t
}
