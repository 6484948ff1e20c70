package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps draining pipes after a kill.
const waitDelay = 2 * time.Second

// CommandSpec describes one automation command run.
type CommandSpec struct {
	Command string
	Dir     string
	Stdin   []byte
	Timeout time.Duration
	Env     []string
}

// CommandOutcome captures the result of running a command.
type CommandOutcome struct {
	Command  string        `json:"command"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	TimedOut bool          `json:"timed_out,omitempty"`
	Canceled bool          `json:"canceled,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// CommandRunner runs automation commands.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) CommandOutcome
}

// ShellRunner runs commands through a POSIX shell.
type ShellRunner struct {
	// Shell overrides the interpreter; empty uses bash, or sh when bash is
	// not installed.
	Shell string
}

func (r ShellRunner) shell() string {
	if r.Shell != "" {
		return r.Shell
	}
	if _, err := exec.LookPath("bash"); err == nil {
		return "bash"
	}
	return "sh"
}

// Run executes spec.Command under spec.Timeout. On timeout or cancellation
// the process group is killed and its output discarded.
func (r ShellRunner) Run(ctx context.Context, spec CommandSpec) CommandOutcome {
	start := time.Now()
	runCtx := ctx
	cancel := func() {}
	if spec.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.shell(), "-c", spec.Command) // #nosec G204 - commands come from the user's own rule files
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.Stdin = bytes.NewReader(spec.Stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	err := cmd.Run()
	out := CommandOutcome{Command: spec.Command, Duration: time.Since(start)}

	if err != nil && runCtx.Err() != nil {
		out.ExitCode = -1
		if ctx.Err() != nil {
			out.Canceled = true
			out.Err = ctx.Err()
		} else {
			out.TimedOut = true
			out.Err = fmt.Errorf("command timed out after %s", spec.Timeout)
		}
		return out
	}

	out.Stdout = stdout.String()
	out.Stderr = stderr.String()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.ExitCode = -1
			out.Err = err
		}
	}
	return out
}
