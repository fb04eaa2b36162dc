package authority

import (
	"context"
	"sort"
	"sync"

	"crossclass/internal/directory/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

// InMemory keeps authorities in a map.
type InMemory struct {
	mu   sync.RWMutex
	byID map[id.AuthorityID]*models.Authority
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.AuthorityID]*models.Authority)}
}

func (s *InMemory) Create(_ context.Context, authority *models.Authority) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[authority.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := *authority
	s.byID[authority.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, authorityID id.AuthorityID) (*models.Authority, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	authority, ok := s.byID[authorityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *authority
	return &copied, nil
}

func (s *InMemory) ListByNation(_ context.Context, nationID id.NationID) ([]*models.Authority, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var authorities []*models.Authority
	for _, authority := range s.byID {
		if authority.NationID == nationID {
			copied := *authority
			authorities = append(authorities, &copied)
		}
	}
	sort.Slice(authorities, func(i, j int) bool { return authorities[i].Name < authorities[j].Name })
	return authorities, nil
}
