package nation

import (
	"context"
	"sort"
	"sync"

	"crossclass/internal/directory/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

// InMemory keeps nations in a map. It doubles as the test fake for services
// and as the default store when no Postgres URL is configured.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[id.NationID]*models.Nation
	byCode  map[id.NationCode]id.NationID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[id.NationID]*models.Nation),
		byCode: make(map[id.NationCode]id.NationID),
	}
}

// Create inserts a nation, enforcing code uniqueness.
func (s *InMemory) Create(_ context.Context, nation *models.Nation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byCode[nation.Code]; exists {
		return sentinel.ErrConflict
	}
	copied := *nation
	s.byID[nation.ID] = &copied
	s.byCode[nation.Code] = nation.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, nationID id.NationID) (*models.Nation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nation, ok := s.byID[nationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *nation
	return &copied, nil
}

func (s *InMemory) FindByCode(_ context.Context, code id.NationCode) (*models.Nation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nationID, ok := s.byCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[nationID]
	return &copied, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Nation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nations := make([]*models.Nation, 0, len(s.byID))
	for _, nation := range s.byID {
		copied := *nation
		nations = append(nations, &copied)
	}
	sort.Slice(nations, func(i, j int) bool { return nations[i].Code < nations[j].Code })
	return nations, nil
}
