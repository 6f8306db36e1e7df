// Package alert carries operational incidents that must reach a human,
// such as a captured payment without a matching inventory commit.
package alert

import (
	"context"
	"log/slog"
)

// Alerter delivers incidents to the operational alerting path.
type Alerter interface {
	Alert(ctx context.Context, message string, args ...any)
}

// LogAlerter reports incidents through the structured log with an alert
// marker, which the log pipeline routes to paging.
type LogAlerter struct {
	logger *slog.Logger
}

// NewLogAlerter constructs LogAlerter.
func NewLogAlerter(logger *slog.Logger) *LogAlerter {
	return &LogAlerter{logger: logger}
}

// Alert emits the incident at error level with alert=true.
func (a *LogAlerter) Alert(ctx context.Context, message string, args ...any) {
	attrs := append([]any{slog.Bool("alert", true)}, args...)
	a.logger.ErrorContext(ctx, message, attrs...)
}
