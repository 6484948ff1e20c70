package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/core"
	"github.com/klauern/railguard/internal/prompt"
)

// NewCheckCmd creates the check command, which evaluates a synthetic event.
func NewCheckCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Evaluate a synthetic event against the resolved rules",
		Description: `Build a lifecycle event from flags and run it through the engine, printing
the decision. Automation commands are executed.

With a terminal attached and without --no-ui, confirm rules open a
confirmation dialog; otherwise they block.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "tool",
				Aliases:  []string{"t"},
				Usage:    "Tool name, e.g. bash, edit, write",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Tool input as key=value (repeatable), e.g. command='rm -rf /'",
			},
			&cli.StringFlag{
				Name:    "event",
				Aliases: []string{"e"},
				Value:   string(core.ToolCall),
				Usage:   "Lifecycle event or host alias",
			},
			cwdFlag(),
			&cli.BoolFlag{
				Name:  "no-ui",
				Usage: "Never prompt; confirm rules block",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the full result as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			kind, ok := core.ResolveEvent(cmd.String("event"))
			if !ok {
				return fmt.Errorf("invalid event '%s'. Valid events: %s", cmd.String("event"), strings.Join(core.ValidEventNames(), ", "))
			}
			input, err := parseInputs(cmd.StringSlice("input"))
			if err != nil {
				return err
			}
			dir, err := workDir(cmd)
			if err != nil {
				return err
			}

			env := loadEnv(cmd)
			notifier := notifierFor(cmd)
			opts := core.Options{ShellTool: env.ShellTool, Notifier: notifier}
			if !cmd.Bool("no-ui") {
				opts.Confirmer = prompt.NewTerminalConfirmer()
			}

			ev, _ := core.NewEvent(kind, core.Base{Cwd: dir}, cmd.String("tool"), input)
			res := core.NewEngine(newStore(env, notifier), opts).Dispatch(ctx, ev)

			if cmd.Bool("json") {
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
				fmt.Fprintln(stdout(cmd), string(data))
				return nil
			}
			printResult(stdout(cmd), res)
			return nil
		},
	}
}

// parseInputs turns key=value pairs into a tool input map.
func parseInputs(pairs []string) (core.ToolInput, error) {
	input := core.ToolInput{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --input '%s', expected key=value", pair)
		}
		input[key] = value
	}
	return input, nil
}

func printResult(w io.Writer, res *core.Result) {
	decision := "allow"
	switch {
	case res.Skipped:
		decision = "skipped"
	case res.Blocked():
		decision = "block"
	}
	fmt.Fprintf(w, "Event: %s\n", res.Event)
	fmt.Fprintf(w, "Decision: %s\n", decision)
	if res.Blocked() {
		fmt.Fprintf(w, "Reason: %s\n", res.Block.Reason)
	}
	if len(res.Matched) > 0 {
		fmt.Fprintln(w, "Matched rules:")
		for _, m := range res.Matched {
			fmt.Fprintf(w, "  %s[%d] (%s)\n", m.Group, m.Index, m.Kind)
		}
	}
	if len(res.Outputs) > 0 {
		fmt.Fprintln(w, "Output:")
		for _, line := range strings.Split(strings.Join(res.Outputs, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	for _, msg := range res.AdditionalContext {
		fmt.Fprintf(w, "Context: %s\n", msg)
	}
	for _, msg := range res.Errors {
		fmt.Fprintf(w, "Error: %s\n", msg)
	}
}
