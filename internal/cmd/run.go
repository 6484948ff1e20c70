package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/config"
	"github.com/klauern/railguard/internal/core"
)

// NewRunCmd creates the hook entry point invoked by the host.
func NewRunCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Evaluate one host hook invocation",
		Description: `Read a hook payload from stdin, evaluate it against the resolved rules
and write the host response to stdout. Installed hooks call this command.

Failures inside railguard never block the host: the error is reported on
stderr and the operation is allowed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "platform",
				Aliases: []string{"p"},
				Usage:   "Host platform: claudecode or cursor (default: auto-detect)",
			},
			&cli.StringFlag{
				Name:    "event",
				Aliases: []string{"e"},
				Usage:   "Host event name, used when the payload doesn't carry one",
			},
			&cli.BoolFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Value:   false,
				Usage:   "Enable structured event logging with rotation",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: config.LoggingFormatJSONL,
				Usage: "Log output format: jsonl or pretty",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logFormat := cmd.String("log-format")
			if cmd.Bool("log") && !config.IsValidLoggingFormat(logFormat) {
				return fmt.Errorf("invalid --log-format '%s'. Valid: jsonl, pretty", logFormat)
			}

			env := loadEnv(cmd)
			p, err := resolvePlatform(cmd.String("platform"), env)
			if err != nil {
				return err
			}

			notifier := notifierFor(cmd)
			opts := core.Options{
				ShellTool: env.ShellTool,
				Notifier:  notifier,
			}
			if cmd.Bool("log") {
				logger, closer := openEventLog(cmd, env, logFormat)
				if closer != nil {
					defer func() { _ = closer.Close() }()
				}
				opts.Logger = logger
			}

			engine := core.NewEngine(newStore(env, notifier), opts)
			if err := p.Handle(ctx, engine, cmd.String("event"), stdin(cmd), stdout(cmd)); err != nil {
				fmt.Fprintf(stderr(cmd), "railguard: %v (allowing)\n", err)
			}
			return nil
		},
	}
}

// openEventLog opens the rotating event log. Logging problems are reported
// and leave logging disabled.
func openEventLog(cmd *cli.Command, env config.Env, format string) (*core.EventLogger, io.Closer) {
	logPath := env.LogPath()
	rotation := config.LogRotationFromSettings(env.GlobalSettingsPath())

	rotating := config.SetupLogRotation(logPath, rotation)
	if rotating == nil {
		fmt.Fprintf(stderr(cmd), "Warning: logging disabled, cannot create %s\n", filepath.Dir(logPath))
		return nil, nil
	}
	if err := config.CleanupOldLogs(filepath.Dir(logPath), rotation.MaxAge); err != nil {
		fmt.Fprintf(stderr(cmd), "Warning: Failed to cleanup old logs: %v\n", err)
	}
	return core.NewEventLogger(rotating, format), rotating
}
