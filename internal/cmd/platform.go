package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/platform"
)

// NewPlatformCmd creates the platform command with subcommands
func NewPlatformCmd() *cli.Command {
	return &cli.Command{
		Name:        "platform",
		Usage:       "Platform detection and information",
		Description: `Detect and display information about the current host platform (Claude Code or Cursor).`,
		Commands: []*cli.Command{
			newPlatformDetectCommand(),
			newPlatformInfoCommand(),
		},
	}
}

// newPlatformDetectCommand creates the detect subcommand
func newPlatformDetectCommand() *cli.Command {
	return &cli.Command{
		Name:        "detect",
		Usage:       "Auto-detect the current platform",
		Description: `Detect which host platform is in use. RAILGUARD_PLATFORM overrides detection.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Value:   false,
				Usage:   "Show supported events",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			p, err := resolvePlatform("", loadEnv(cmd))
			if err != nil {
				return err
			}
			printPlatform(stdout(cmd), p, cmd.Bool("verbose"))
			return nil
		},
	}
}

// newPlatformInfoCommand creates the info subcommand
func newPlatformInfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show detailed information about a platform",
		ArgsUsage: "[platform]",
		Description: `Show detailed information about a specific platform (claudecode or cursor).
If no platform is specified, shows info for the detected platform.`,
		Action: func(_ context.Context, cmd *cli.Command) error {
			var (
				p   platform.Platform
				err error
			)
			if cmd.Args().Len() == 0 {
				p, err = resolvePlatform("", loadEnv(cmd))
			} else {
				var t platform.Type
				if t, err = platform.TypeFromString(cmd.Args().First()); err != nil {
					return fmt.Errorf("invalid platform: %w", err)
				}
				p, err = platformFor(t)
			}
			if err != nil {
				return err
			}
			printPlatform(stdout(cmd), p, true)
			return nil
		},
	}
}

func printPlatform(w io.Writer, p platform.Platform, events bool) {
	fmt.Fprintf(w, "Platform: %s\n", p.Name())
	fmt.Fprintf(w, "Type: %s\n", p.Type())
	if path, err := p.ConfigPath(platform.ScopeGlobal, ""); err == nil {
		fmt.Fprintf(w, "Config Path: %s\n", path)
	}
	if !events {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported Events:")
	for _, event := range p.AllEvents() {
		fmt.Fprintf(w, "  • %s\n", event.Name)
		fmt.Fprintf(w, "    Description: %s\n", event.Description)
		fmt.Fprintf(w, "    Lifecycle Event: %s\n", event.GenericEvent)
		fmt.Fprintf(w, "    Requires Stdio: %v\n", event.RequiresStdio)
	}
}
