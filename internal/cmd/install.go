package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/platform"
)

func installFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "platform",
			Aliases: []string{"p"},
			Usage:   "Host platform: claudecode or cursor (default: auto-detect)",
		},
		&cli.BoolFlag{
			Name:    "global",
			Aliases: []string{"g"},
			Value:   false,
			Usage:   "Use the user-wide host settings instead of the project's",
		},
		&cli.StringFlag{
			Name:  "project-dir",
			Usage: "Project directory for project-scoped settings (default: current directory)",
		},
	}
}

// hostConfig resolves the platform and the settings file selected by the
// install flags.
func hostConfig(cmd *cli.Command) (platform.Platform, string, string, error) {
	p, err := resolvePlatform(cmd.String("platform"), loadEnv(cmd))
	if err != nil {
		return nil, "", "", err
	}

	scope := platform.ScopeProject
	if cmd.Bool("global") {
		scope = platform.ScopeGlobal
	}
	dir := cmd.String("project-dir")
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, "", "", fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	path, err := p.ConfigPath(scope, dir)
	if err != nil {
		return nil, "", "", err
	}
	return p, path, string(scope), nil
}

// NewInstallCmd creates the install command.
func NewInstallCmd() *cli.Command {
	flags := append(installFlags(), &cli.StringFlag{
		Name:  "binary",
		Usage: "Command hosts should run (default: this executable)",
	})
	return &cli.Command{
		Name:  "install",
		Usage: "Register railguard hooks with the host",
		Description: `Add a railguard hook for every event the host supports. Unrelated hooks
and settings are preserved; running install twice adds nothing.`,
		Flags: flags,
		Action: func(_ context.Context, cmd *cli.Command) error {
			p, path, scope, err := hostConfig(cmd)
			if err != nil {
				return err
			}
			binary := cmd.String("binary")
			if binary == "" {
				if binary, err = os.Executable(); err != nil {
					return fmt.Errorf("failed to get executable path: %w", err)
				}
			}

			added, err := p.Install(path, binary)
			if err != nil {
				return fmt.Errorf("failed to install hooks: %w", err)
			}

			w := stdout(cmd)
			if added == 0 {
				fmt.Fprintf(w, "railguard hooks are already installed in %s %s settings (%s)\n", p.Name(), scope, path)
				return nil
			}
			fmt.Fprintf(w, "Installed %d railguard hooks in %s %s settings (%s)\n", added, p.Name(), scope, path)
			return nil
		},
	}
}

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cli.Command {
	return &cli.Command{
		Name:        "uninstall",
		Usage:       "Remove railguard hooks from the host",
		Description: `Remove every railguard hook from the host settings, leaving other hooks and settings untouched.`,
		Flags:       installFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			p, path, scope, err := hostConfig(cmd)
			if err != nil {
				return err
			}
			removed, err := p.Uninstall(path)
			if err != nil {
				return fmt.Errorf("failed to uninstall hooks: %w", err)
			}

			w := stdout(cmd)
			if removed == 0 {
				fmt.Fprintf(w, "No railguard hooks found in %s %s settings (%s)\n", p.Name(), scope, path)
				return nil
			}
			fmt.Fprintf(w, "Removed %d railguard hooks from %s %s settings (%s)\n", removed, p.Name(), scope, path)
			return nil
		},
	}
}
