// Package response persists conversion response rows. The store enforces the
// one-response-per-request invariant so concurrent processing of the same
// request cannot produce duplicates.
package response

import (
	"context"
	"sync"

	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

type InMemory struct {
	mu        sync.RWMutex
	byID      map[id.ResponseID]*models.ConversionResponse
	byRequest map[id.RequestID]id.ResponseID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:      make(map[id.ResponseID]*models.ConversionResponse),
		byRequest: make(map[id.RequestID]id.ResponseID),
	}
}

// Create inserts a response. A second response for the same request returns
// ErrConflict, mirroring the unique constraint the Postgres store relies on.
func (s *InMemory) Create(_ context.Context, response *models.ConversionResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byRequest[response.RequestID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[response.ID] = copyResponse(response)
	s.byRequest[response.RequestID] = response.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, responseID id.ResponseID) (*models.ConversionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	response, ok := s.byID[responseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyResponse(response), nil
}

func (s *InMemory) FindByRequestID(_ context.Context, requestID id.RequestID) (*models.ConversionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	responseID, ok := s.byRequest[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyResponse(s.byID[responseID]), nil
}

func (s *InMemory) FindByDocumentID(_ context.Context, documentID id.DocumentID) (*models.ConversionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, response := range s.byID {
		if response.DocumentID == documentID {
			return copyResponse(response), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func copyResponse(response *models.ConversionResponse) *models.ConversionResponse {
	copied := *response
	copied.TargetClassifications = make(map[id.NationCode]string, len(response.TargetClassifications))
	for code, text := range response.TargetClassifications {
		copied.TargetClassifications[code] = text
	}
	if response.ExpiresAt != nil {
		at := *response.ExpiresAt
		copied.ExpiresAt = &at
	}
	return &copied
}
