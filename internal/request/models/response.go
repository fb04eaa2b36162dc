package models

import (
	"time"

	id "crossclass/pkg/domain"
)

// ConversionResponse is the immutable outcome of a successful conversion.
// Exactly one response exists per completed request; it is never updated
// after creation, so a retried or re-audited conversion always sees the same
// record.
type ConversionResponse struct {
	ID         id.ResponseID `json:"id"`
	RequestID  id.RequestID  `json:"request_id"`
	DocumentID id.DocumentID `json:"document_id"`

	// ReferenceClassification is the hub value the translation routed
	// through, in the reference vocabulary.
	ReferenceClassification id.ReferenceLevel `json:"reference_classification"`

	// TargetClassifications maps each target nation code to the translated
	// classification in that nation's vocabulary.
	TargetClassifications map[id.NationCode]string `json:"target_classifications"`

	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt is inherited from the earliest-expiring schema used in the
	// conversion, nil when none of them expire.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NewConversionResponse constructs the response record for a processed
// request. Callers copy the targets map before handing it over if they
// intend to reuse it.
func NewConversionResponse(requestID id.RequestID, documentID id.DocumentID,
	reference id.ReferenceLevel, targets map[id.NationCode]string,
	expiresAt *time.Time, now time.Time) *ConversionResponse {

	return &ConversionResponse{
		ID:                      id.NewResponseID(),
		RequestID:               requestID,
		DocumentID:              documentID,
		ReferenceClassification: reference,
		TargetClassifications:   targets,
		CreatedAt:               now,
		ExpiresAt:               expiresAt,
	}
}
