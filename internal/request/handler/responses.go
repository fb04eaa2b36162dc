package handler

import (
	"time"

	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
)

// requestResponse is the HTTP representation of a conversion request.
type requestResponse struct {
	ID                   id.RequestID    `json:"id"`
	CreatorID            id.UserID       `json:"creator_id"`
	AuthorityID          id.AuthorityID  `json:"authority_id"`
	DocumentID           id.DocumentID   `json:"document_id"`
	SourceNationCode     id.NationCode   `json:"source_nation_code"`
	SourceClassification string          `json:"source_classification"`
	TargetNationCodes    []id.NationCode `json:"target_nation_codes"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
}

// conversionResponse is the HTTP representation of a conversion outcome.
type conversionResponse struct {
	ID                      id.ResponseID            `json:"id"`
	RequestID               id.RequestID             `json:"request_id"`
	DocumentID              id.DocumentID            `json:"document_id"`
	ReferenceClassification string                   `json:"reference_classification"`
	TargetClassifications   map[id.NationCode]string `json:"target_classifications"`
	CreatedAt               time.Time                `json:"created_at"`
	ExpiresAt               *time.Time               `json:"expires_at,omitempty"`
}

func fromRequest(request *models.ConversionRequest) *requestResponse {
	status := "pending"
	if request.IsCompleted() {
		status = "completed"
	}
	return &requestResponse{
		ID:                   request.ID,
		CreatorID:            request.CreatorID,
		AuthorityID:          request.AuthorityID,
		DocumentID:           request.DocumentID,
		SourceNationCode:     request.SourceCode,
		SourceClassification: request.SourceClassification,
		TargetNationCodes:    request.TargetCodes,
		Status:               status,
		CreatedAt:            request.CreatedAt,
		CompletedAt:          request.CompletedAt,
	}
}

func fromRequests(requests []*models.ConversionRequest) []*requestResponse {
	out := make([]*requestResponse, len(requests))
	for i, request := range requests {
		out[i] = fromRequest(request)
	}
	return out
}

func fromResponse(response *models.ConversionResponse) *conversionResponse {
	return &conversionResponse{
		ID:                      response.ID,
		RequestID:               response.RequestID,
		DocumentID:              response.DocumentID,
		ReferenceClassification: response.ReferenceClassification.String(),
		TargetClassifications:   response.TargetClassifications,
		CreatedAt:               response.CreatedAt,
		ExpiresAt:               response.ExpiresAt,
	}
}
