// Package models defines the conversion request lifecycle entities: the
// request itself, its immutable response, and the subject artifacts
// (document, metadata) created at intake.
package models

import (
	"strings"
	"time"

	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
)

// ConversionRequest asks for one document's classification to be translated
// from a source nation's vocabulary into one or more target vocabularies.
//
// Lifecycle: Pending (CompletedAt nil) then Completed (CompletedAt set).
// There is no persisted failed state. A request whose conversion fails stays
// Pending and may be retried once the underlying problem (typically an
// expired schema) is fixed.
type ConversionRequest struct {
	ID          id.RequestID    `json:"id"`
	CreatorID   id.UserID       `json:"creator_id"`
	AuthorityID id.AuthorityID  `json:"authority_id"`
	DocumentID  id.DocumentID   `json:"document_id"`
	SourceCode  id.NationCode   `json:"source_nation_code"`
	// SourceClassification is text in the source nation's own vocabulary,
	// stored verbatim. Normalization happens at conversion time, not intake.
	SourceClassification string          `json:"source_classification"`
	TargetCodes          []id.NationCode `json:"target_nation_codes"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
}

// NewConversionRequest validates and constructs a pending request.
// Targets must be non-empty and must not include the source nation.
func NewConversionRequest(creator id.UserID, authorityID id.AuthorityID, documentID id.DocumentID,
	source id.NationCode, classification string, targets []id.NationCode, now time.Time) (*ConversionRequest, error) {

	classification = strings.TrimSpace(classification)
	if classification == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "source classification cannot be empty")
	}
	if len(targets) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one target nation is required")
	}
	for _, target := range targets {
		if target == source {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "target nations cannot include the source nation")
		}
	}
	if documentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "conversion request requires a document")
	}

	return &ConversionRequest{
		ID:                   id.NewRequestID(),
		CreatorID:            creator,
		AuthorityID:          authorityID,
		DocumentID:           documentID,
		SourceCode:           source,
		SourceClassification: classification,
		TargetCodes:          targets,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// IsCompleted reports whether the request has reached its terminal state.
func (r *ConversionRequest) IsCompleted() bool {
	return r.CompletedAt != nil
}

// MarkCompleted transitions the request to its terminal state. Calling it on
// an already completed request is an invariant violation.
func (r *ConversionRequest) MarkCompleted(now time.Time) error {
	if r.IsCompleted() {
		return dErrors.New(dErrors.CodeConflict, "conversion request is already completed")
	}
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}
