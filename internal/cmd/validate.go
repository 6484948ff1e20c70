package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/config"
	"github.com/klauern/railguard/internal/core"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate rule files",
		ArgsUsage: "[files...]",
		Description: `Validate the given rule files, or every configured source (defaults,
global settings and the project rule file of --cwd) when none are given.`,
		Flags: []cli.Flag{cwdFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			targets, err := validationTargets(cmd)
			if err != nil {
				return err
			}

			w := stdout(cmd)
			failed := 0
			for _, t := range targets {
				groups, err := t.load()
				if err == nil {
					err = core.ValidateGroups(groups)
				}
				if err != nil {
					failed++
					fmt.Fprintf(w, "✗ %s\n", t.name)
					var verr *core.ValidationError
					if errors.As(err, &verr) {
						for _, issue := range verr.Issues {
							fmt.Fprintf(w, "    %s\n", issue)
						}
					} else {
						fmt.Fprintf(w, "    %v\n", err)
					}
					continue
				}
				fmt.Fprintf(w, "✓ %s (%d groups)\n", t.name, len(groups))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d rule sources are invalid", failed, len(targets))
			}
			return nil
		},
	}
}

type validationTarget struct {
	name string
	load func() ([]config.RuleGroup, error)
}

func validationTargets(cmd *cli.Command) ([]validationTarget, error) {
	if files := cmd.Args().Slice(); len(files) > 0 {
		targets := make([]validationTarget, len(files))
		for i, f := range files {
			path := f
			targets[i] = validationTarget{name: path, load: func() ([]config.RuleGroup, error) {
				return config.ParseRuleFile(path)
			}}
		}
		return targets, nil
	}

	env := loadEnv(cmd)
	dir, err := workDir(cmd)
	if err != nil {
		return nil, err
	}

	targets := []validationTarget{{name: "defaults", load: config.DefaultGroups}}
	globalPath := env.GlobalSettingsPath()
	if _, err := os.Stat(globalPath); err == nil {
		targets = append(targets, validationTarget{name: globalPath, load: func() ([]config.RuleGroup, error) {
			groups, err := config.LoadGlobalRules(globalPath)
			if errors.Is(err, config.ErrNoGlobal) {
				return nil, nil
			}
			return groups, err
		}})
	}
	if path, ok := config.FindProjectRules(dir); ok {
		targets = append(targets, validationTarget{name: path, load: func() ([]config.RuleGroup, error) {
			return config.ParseRuleFile(path)
		}})
	}
	return targets, nil
}
