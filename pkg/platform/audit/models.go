// Package audit captures key domain actions for external logging.
//
// Services emit events on mutating operations; sinks decide where they go
// (structured log, Kafka, in-memory for tests). The core conversion logic
// never logs directly - auditing is strictly a surrounding concern.
package audit

import (
	"context"
	"time"

	id "crossclass/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	Action    Action
	ActorID   id.UserID
	// Subject identifies the entity acted on (request ID, schema ID, ...).
	Subject string
	// Outcome is "success" or "failure".
	Outcome string
	// Reason carries the error text on failure.
	Reason string
	// RequestID is the correlation ID from the transport context.
	RequestID string
}

// Action names an auditable operation.
type Action string

const (
	ActionNationCreated     Action = "nation_created"
	ActionAuthorityCreated  Action = "authority_created"
	ActionSchemaRegistered  Action = "schema_version_registered"
	ActionRequestSubmitted  Action = "conversion_request_submitted"
	ActionRequestProcessed  Action = "conversion_request_processed"
	ActionConversionFailed  Action = "conversion_failed"
	ActionResponseDelivered Action = "conversion_response_read"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder accepts audit events. Implementations must be safe for concurrent
// use. Recording failures are the sink's problem: business operations do not
// fail because an audit write failed.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Discard is a Recorder that drops every event. Useful default for tests.
type Discard struct{}

func (Discard) Record(context.Context, Event) {}
