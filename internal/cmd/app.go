package cmd

import (
	"github.com/urfave/cli/v3"

	"github.com/klauern/railguard/internal/constants"
)

// NewApp builds the root command.
func NewApp(info VersionInfo) *cli.Command {
	return &cli.Command{
		Name:    constants.BinaryName,
		Usage:   constants.ProjectTagline,
		Version: info.Version,
		Description: `railguard evaluates coding-agent lifecycle hooks against layered rule
groups: policy rules allow, block or confirm tool calls, automation rules run
shell commands and feed their output back to the agent.

Rules come from the embedded defaults, the global settings document
(` + "`config path`" + ` shows where) and the project's .railguard/rules file.`,
		Commands: []*cli.Command{
			NewRunCmd(),
			NewCheckCmd(),
			NewListCmd(),
			NewValidateCmd(),
			NewConfigCmd(),
			NewInstallCmd(),
			NewUninstallCmd(),
			NewWatchCmd(),
			NewEventsCmd(),
			NewPlatformCmd(),
			NewVersionCmd(info),
		},
	}
}
