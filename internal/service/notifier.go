// Package service wires the calculation engine to storage and carries the
// application's operational rules: past-bill gating, silent no-ops, and
// user-facing notifications.
package service

import (
	"context"
	"log/slog"
)

// Notifier delivers short user-facing messages ("Reminder sent!"). The demo
// build logs them; a real deployment would push them to the client.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, message string) {
	slog.Info("notification", "message", message)
}
