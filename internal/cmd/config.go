package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/config"
	"github.com/klauern/railguard/internal/core"
)

// NewConfigCmd creates the config command with its subcommands.
func NewConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and edit railguard configuration",
		Commands: []*cli.Command{
			newConfigPathCmd(),
			newConfigShowCmd(),
			newConfigSaveGlobalCmd(),
			newConfigLogCmd(),
		},
	}
}

func newConfigPathCmd() *cli.Command {
	return &cli.Command{
		Name:  "path",
		Usage: "Show configuration file locations",
		Flags: []cli.Flag{cwdFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir, err := workDir(cmd)
			if err != nil {
				return err
			}
			env := loadEnv(cmd)
			w := stdout(cmd)

			fmt.Fprintf(w, "Global settings: %s\n", env.GlobalSettingsPath())
			if path, ok := config.FindProjectRules(dir); ok {
				fmt.Fprintf(w, "Project rules: %s\n", path)
			} else {
				fmt.Fprintf(w, "Project rules: none (looked for %s)\n", config.ProjectRulesCandidates(dir)[0])
			}
			fmt.Fprintf(w, "Event log: %s\n", env.LogPath())
			return nil
		},
	}
}

func newConfigShowCmd() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the resolved rule groups",
		Flags: []cli.Flag{
			cwdFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   config.FormatJSON,
				Usage:   "Output format: json, yaml or toml",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir, err := workDir(cmd)
			if err != nil {
				return err
			}
			env := loadEnv(cmd)
			resolved := newStore(env, notifierFor(cmd)).GetConfig(dir)

			data, err := config.EncodeRules(resolved.Groups, cmd.String("format"))
			if err != nil {
				return err
			}
			w := stdout(cmd)
			fmt.Fprintf(w, "# sources: %s\n", layerSummary(resolved.Layers))
			_, err = w.Write(append(data, '\n'))
			return err
		},
	}
}

func newConfigSaveGlobalCmd() *cli.Command {
	return &cli.Command{
		Name:      "save-global",
		Usage:     "Store a rule file as the global rules",
		ArgsUsage: "<file>",
		Description: `Parse and validate a rule file, then write its groups under the rules key
of the global settings document. Other settings keys are kept. Global rules
replace the defaults and every project rule file.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Save even when validation fails",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("exactly one argument required: <file>")
			}
			groups, err := config.ParseRuleFile(cmd.Args().First())
			if err != nil {
				return err
			}
			if err := core.ValidateGroups(groups); err != nil && !cmd.Bool("force") {
				return fmt.Errorf("refusing to save invalid rules (use --force):\n%w", err)
			}

			env := loadEnv(cmd)
			store := newStore(env, notifierFor(cmd))
			if err := store.SaveGlobal(groups); err != nil {
				return fmt.Errorf("failed to save global rules: %w", err)
			}
			fmt.Fprintf(stdout(cmd), "Saved %d rule groups to %s\n", len(groups), store.GlobalPath())
			return nil
		},
	}
}

func newConfigLogCmd() *cli.Command {
	return &cli.Command{
		Name:        "log",
		Usage:       "Configure log rotation settings",
		Description: `Configure event log rotation including maximum age, file size, and backup count.`,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-age", Aliases: []string{"a"}, Usage: "Maximum age in days to retain log files (default: 30)"},
			&cli.IntFlag{Name: "max-size", Aliases: []string{"s"}, Usage: "Maximum size in MB per log file before rotation (default: 10)"},
			&cli.IntFlag{Name: "max-backups", Aliases: []string{"b"}, Usage: "Maximum number of backup files to retain (default: 5)"},
			&cli.BoolFlag{Name: "compress", Aliases: []string{"c"}, Usage: "Compress rotated log files"},
			&cli.BoolFlag{Name: "show", Usage: "Show current log rotation settings"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			path := loadEnv(cmd).GlobalSettingsPath()
			settings, err := config.LoadGlobalSettings(path)
			if err != nil {
				return fmt.Errorf("error loading settings: %w", err)
			}

			w := stdout(cmd)
			if cmd.Bool("show") {
				fmt.Fprintf(w, "Current log rotation settings (%s):\n", path)
				printRotation(w, settings.LogRotation)
				return nil
			}

			// Only update values that were given
			if v := cmd.Int("max-age"); v > 0 {
				settings.LogRotation.MaxAge = v
			}
			if v := cmd.Int("max-size"); v > 0 {
				settings.LogRotation.MaxSize = v
			}
			if v := cmd.Int("max-backups"); v > 0 {
				settings.LogRotation.MaxBackups = v
			}
			if cmd.IsSet("compress") {
				settings.LogRotation.Compress = cmd.Bool("compress")
			}

			if err := config.SaveGlobalSettings(path, settings); err != nil {
				return fmt.Errorf("error saving settings: %w", err)
			}
			fmt.Fprintf(w, "Log rotation configuration updated (%s):\n", path)
			printRotation(w, settings.LogRotation)
			return nil
		},
	}
}

func printRotation(w io.Writer, c config.LogRotationConfig) {
	fmt.Fprintf(w, "  Max Age: %d days\n", c.MaxAge)
	fmt.Fprintf(w, "  Max Size: %d MB\n", c.MaxSize)
	fmt.Fprintf(w, "  Max Backups: %d files\n", c.MaxBackups)
	fmt.Fprintf(w, "  Compress: %t\n", c.Compress)
}
