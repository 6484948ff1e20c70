package core

import "context"

// Severity of a notification.
type Severity string

// Notification severities
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Confirmer asks an interactive user to approve an operation. It is only
// attached when the host has an interactive surface.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Notifier surfaces a message to the user.
type Notifier interface {
	Notify(message string, severity Severity)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, title, message string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, title, message string) (bool, error) {
	return f(ctx, title, message)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(message string, severity Severity)

// Notify calls f.
func (f NotifyFunc) Notify(message string, severity Severity) {
	f(message, severity)
}
