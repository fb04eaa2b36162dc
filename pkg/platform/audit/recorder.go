package audit

import (
	"context"
	"log/slog"

	"crossclass/pkg/requestcontext"
)

// LogRecorder writes audit events to a structured logger. It is the default
// sink when no Kafka brokers are configured.
type LogRecorder struct {
	logger *slog.Logger
}

func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) Record(ctx context.Context, event Event) {
	if r.logger == nil {
		return
	}
	r.logger.InfoContext(ctx, "audit",
		"action", string(event.Action),
		"actor_id", event.ActorID.String(),
		"subject", event.Subject,
		"outcome", event.Outcome,
		"reason", event.Reason,
		"request_id", event.RequestID,
		"timestamp", event.Timestamp,
	)
}

// Fill populates the event's actor, correlation ID and timestamp from the
// request context when the caller left them unset.
func Fill(ctx context.Context, event Event) Event {
	if event.ActorID.IsNil() {
		event.ActorID = requestcontext.UserID(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	return event
}
