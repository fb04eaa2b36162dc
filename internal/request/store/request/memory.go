// Package request persists conversion request rows.
package request

import (
	"context"
	"sort"
	"sync"

	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

// InMemory keeps requests in a map. It doubles as the test fake for the
// lifecycle service and as the default store when no Postgres URL is
// configured.
type InMemory struct {
	mu   sync.RWMutex
	byID map[id.RequestID]*models.ConversionRequest
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.RequestID]*models.ConversionRequest)}
}

func (s *InMemory) Create(_ context.Context, request *models.ConversionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[request.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[request.ID] = copyRequest(request)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, requestID id.RequestID) (*models.ConversionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	request, ok := s.byID[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyRequest(request), nil
}

func (s *InMemory) FindByDocumentID(_ context.Context, documentID id.DocumentID) (*models.ConversionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, request := range s.byID {
		if request.DocumentID == documentID {
			return copyRequest(request), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Update persists lifecycle fields (CompletedAt, UpdatedAt). The request must
// already exist.
func (s *InMemory) Update(_ context.Context, request *models.ConversionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[request.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.byID[request.ID] = copyRequest(request)
	return nil
}

func (s *InMemory) ListByCreator(_ context.Context, creator id.UserID) ([]*models.ConversionRequest, error) {
	return s.filter(func(r *models.ConversionRequest) bool { return r.CreatorID == creator })
}

func (s *InMemory) ListByAuthority(_ context.Context, authorityID id.AuthorityID) ([]*models.ConversionRequest, error) {
	return s.filter(func(r *models.ConversionRequest) bool { return r.AuthorityID == authorityID })
}

func (s *InMemory) ListBySourceNation(_ context.Context, code id.NationCode) ([]*models.ConversionRequest, error) {
	return s.filter(func(r *models.ConversionRequest) bool { return r.SourceCode == code })
}

func (s *InMemory) ListByTargetNation(_ context.Context, code id.NationCode) ([]*models.ConversionRequest, error) {
	return s.filter(func(r *models.ConversionRequest) bool {
		for _, target := range r.TargetCodes {
			if target == code {
				return true
			}
		}
		return false
	})
}

func (s *InMemory) ListPending(_ context.Context) ([]*models.ConversionRequest, error) {
	return s.filter(func(r *models.ConversionRequest) bool { return !r.IsCompleted() })
}

func (s *InMemory) ListCompleted(_ context.Context) ([]*models.ConversionRequest, error) {
	return s.filter(func(r *models.ConversionRequest) bool { return r.IsCompleted() })
}

func (s *InMemory) filter(keep func(*models.ConversionRequest) bool) ([]*models.ConversionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var requests []*models.ConversionRequest
	for _, request := range s.byID {
		if keep(request) {
			requests = append(requests, copyRequest(request))
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func copyRequest(request *models.ConversionRequest) *models.ConversionRequest {
	copied := *request
	copied.TargetCodes = append([]id.NationCode(nil), request.TargetCodes...)
	if request.CompletedAt != nil {
		at := *request.CompletedAt
		copied.CompletedAt = &at
	}
	return &copied
}
