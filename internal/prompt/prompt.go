// Package prompt provides the terminal surfaces the engine talks to: a huh
// confirmation dialog and a lipgloss notifier.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/klauern/railguard/internal/constants"
	"github.com/klauern/railguard/internal/core"
)

// Interactive reports whether stdin and stderr are both terminals, which is
// required for a confirmation dialog.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && //nolint:gosec // Fd() fits in int on all supported platforms
		term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // Fd() fits in int on all supported platforms
}

// TerminalConfirmer asks for approval with a huh confirm dialog.
type TerminalConfirmer struct {
	Input  io.Reader
	Output io.Writer
}

// NewTerminalConfirmer returns a confirmer on stdin/stderr, or nil when no
// terminal is attached. A nil confirmer makes confirm rules block.
func NewTerminalConfirmer() core.Confirmer {
	if !Interactive() {
		return nil
	}
	return &TerminalConfirmer{Input: os.Stdin, Output: os.Stderr}
}

// Confirm implements core.Confirmer. Aborting the dialog counts as a denial.
func (c *TerminalConfirmer) Confirm(ctx context.Context, title, message string) (bool, error) {
	allow := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(message).
				Affirmative("Allow").
				Negative("Deny").
				Value(&allow),
		),
	)
	if c.Input != nil {
		form = form.WithInput(c.Input)
	}
	if c.Output != nil {
		form = form.WithOutput(c.Output)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return allow, nil
}

// Color palette for notifications. Adapts to the terminal background.
var (
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#1F6FB2", Dark: "#7FB8E6"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD93D"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#B5382A", Dark: "#E05A3A"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A89984"}
)

// Notifier renders engine notifications to a writer, one labelled block per
// message. Colour is dropped when the writer isn't a terminal or NO_COLOR
// is set.
type Notifier struct {
	mu  sync.Mutex
	out io.Writer

	prefix lipgloss.Style
	styles map[core.Severity]lipgloss.Style
}

// NewNotifier creates a Notifier writing to w.
func NewNotifier(w io.Writer) *Notifier {
	r := lipgloss.NewRenderer(w)
	return &Notifier{
		out:    w,
		prefix: r.NewStyle().Bold(true).Foreground(ColorMuted),
		styles: map[core.Severity]lipgloss.Style{
			core.SeverityInfo:    r.NewStyle().Foreground(ColorInfo),
			core.SeverityWarning: r.NewStyle().Foreground(ColorWarning),
			core.SeverityError:   r.NewStyle().Bold(true).Foreground(ColorError),
		},
	}
}

// NewStderrNotifier is a Notifier on os.Stderr.
func NewStderrNotifier() *Notifier {
	return NewNotifier(os.Stderr)
}

// Notify implements core.Notifier.
func (n *Notifier) Notify(message string, severity core.Severity) {
	message = strings.TrimRight(message, "\n")
	if message == "" {
		return
	}
	style, ok := n.styles[severity]
	if !ok {
		style = n.styles[core.SeverityInfo]
		severity = core.SeverityInfo
	}

	label := n.prefix.Render("["+constants.AppName+"]") + " " + style.Render(string(severity)+":")
	lines := strings.Split(message, "\n")

	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.out, "%s %s\n", label, lines[0])
	for _, line := range lines[1:] {
		_, _ = fmt.Fprintf(n.out, "  %s\n", line)
	}
}
