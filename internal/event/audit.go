package event

import (
	"context"
	"log/slog"
)

// AuditLogger writes every account event to the structured log until ctx is done.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger.With("component", "audit")}
}

// Run blocks; callers start it in its own goroutine.
func (a *AuditLogger) Run(ctx context.Context, bus Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			a.record(e)
		}
	}
}

func (a *AuditLogger) record(e Event) {
	attrs := []any{
		"event_id", e.ID,
		"type", string(e.Type),
		"username", e.Username,
		"at", e.Timestamp,
	}
	for k, v := range e.Payload {
		attrs = append(attrs, k, v)
	}
	a.logger.Info("account event", attrs...)
}
