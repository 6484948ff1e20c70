// Package cmd holds the railguard CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/config"
	"github.com/klauern/railguard/internal/constants"
	"github.com/klauern/railguard/internal/core"
	"github.com/klauern/railguard/internal/platform"
	"github.com/klauern/railguard/internal/platform/claude"
	"github.com/klauern/railguard/internal/platform/cursor"
	"github.com/klauern/railguard/internal/prompt"
)

// stdout returns the writer commands print results to.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// stderr returns the writer commands print diagnostics to.
func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// stdin returns the reader hook payloads arrive on.
func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// loadEnv reads RAILGUARD_* variables. A malformed variable is reported
// and the defaults are used.
func loadEnv(cmd *cli.Command) config.Env {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(stderr(cmd), "Warning: %v\n", err)
	}
	if env.ShellTool == "" {
		env.ShellTool = constants.ToolBash
	}
	return env
}

// newStore builds the rule store for env. Skipped sources are surfaced as
// warnings through n.
func newStore(env config.Env, n core.Notifier) *config.Store {
	return config.NewStore(config.StoreOptions{
		GlobalPath: env.GlobalSettingsPath(),
		NoDefaults: env.NoDefaults,
		OnWarning: func(source config.Source, path string, err error) {
			if n != nil {
				n.Notify(fmt.Sprintf("ignoring %s rules at %s: %v", source, path, err), core.SeverityWarning)
			}
		},
	})
}

// resolvePlatform returns the platform named by flag, falling back to
// RAILGUARD_PLATFORM and then auto-detection.
func resolvePlatform(flag string, env config.Env) (platform.Platform, error) {
	override := strings.TrimSpace(flag)
	if override == "" {
		override = env.Platform
	}
	t, err := platform.NewDetector(override).DetectType()
	if err != nil {
		return nil, fmt.Errorf("failed to detect platform: %w", err)
	}
	return platformFor(t)
}

func platformFor(t platform.Type) (platform.Platform, error) {
	switch t {
	case platform.Cursor:
		return cursor.New(), nil
	case platform.ClaudeCode:
		return claude.New(), nil
	default:
		return nil, fmt.Errorf("unknown platform type: %s", t)
	}
}

// workDir returns the --cwd flag or the process working directory.
func workDir(cmd *cli.Command) (string, error) {
	if dir := cmd.String("cwd"); dir != "" {
		return dir, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return dir, nil
}

func cwdFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "cwd",
		Usage: "Directory to resolve rules for (default: current directory)",
	}
}

func notifierFor(cmd *cli.Command) *prompt.Notifier {
	return prompt.NewNotifier(stderr(cmd))
}
