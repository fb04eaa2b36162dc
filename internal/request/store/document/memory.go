// Package document persists the subject documents attached to conversion
// requests.
package document

import (
	"context"
	"sync"

	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

type InMemory struct {
	mu   sync.RWMutex
	byID map[id.DocumentID]*models.Document
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.DocumentID]*models.Document)}
}

func (s *InMemory) Create(_ context.Context, document *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[document.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *document
	s.byID[document.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, documentID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	document, ok := s.byID[documentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *document
	return &copied, nil
}
