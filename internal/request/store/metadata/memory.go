// Package metadata persists the provenance records attached to documents.
package metadata

import (
	"context"
	"sync"

	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

type InMemory struct {
	mu         sync.RWMutex
	byID       map[id.MetadataID]*models.Metadata
	byDocument map[id.DocumentID]id.MetadataID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:       make(map[id.MetadataID]*models.Metadata),
		byDocument: make(map[id.DocumentID]id.MetadataID),
	}
}

// Create inserts a metadata record. One record per document.
func (s *InMemory) Create(_ context.Context, meta *models.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byDocument[meta.DocumentID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[meta.ID] = copyMetadata(meta)
	s.byDocument[meta.DocumentID] = meta.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, metadataID id.MetadataID) (*models.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.byID[metadataID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyMetadata(meta), nil
}

func (s *InMemory) FindByDocumentID(_ context.Context, documentID id.DocumentID) (*models.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	metadataID, ok := s.byDocument[documentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyMetadata(s.byID[metadataID]), nil
}

func copyMetadata(meta *models.Metadata) *models.Metadata {
	copied := *meta
	copied.ReleasableTo = append([]id.NationCode(nil), meta.ReleasableTo...)
	copied.ReleasableToOrgs = append([]string(nil), meta.ReleasableToOrgs...)
	copied.ReleasableToCategories = append([]string(nil), meta.ReleasableToCategories...)
	copied.Tags = append([]string(nil), meta.Tags...)
	if meta.FormatSize != nil {
		size := *meta.FormatSize
		copied.FormatSize = &size
	}
	if meta.AuthorizationReference != nil {
		ref := *meta.AuthorizationReference
		copied.AuthorizationReference = &ref
	}
	if meta.AuthorizationReferenceDate != nil {
		date := *meta.AuthorizationReferenceDate
		copied.AuthorizationReferenceDate = &date
	}
	return &copied
}
