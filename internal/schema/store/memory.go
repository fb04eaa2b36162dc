// Package store provides persistence for classification schema versions.
//
// Rows are append-only: Create inserts a new version and nothing ever
// mutates the mapping fields of an existing row.
package store

import (
	"context"
	"sort"
	"sync"

	"crossclass/internal/schema/models"
	id "crossclass/pkg/domain"
	"crossclass/pkg/platform/sentinel"
)

// InMemory keeps schema versions grouped by nation code.
type InMemory struct {
	mu       sync.RWMutex
	byNation map[id.NationCode][]*models.ClassificationSchema
}

func NewInMemory() *InMemory {
	return &InMemory{byNation: make(map[id.NationCode][]*models.ClassificationSchema)}
}

// Create appends a schema version, enforcing (nation code, version)
// uniqueness.
func (s *InMemory) Create(_ context.Context, schema *models.ClassificationSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byNation[schema.NationCode] {
		if existing.Version == schema.Version {
			return sentinel.ErrConflict
		}
	}
	copied := *schema
	s.byNation[schema.NationCode] = append(s.byNation[schema.NationCode], &copied)
	return nil
}

// Latest returns the schema with the greatest CreatedAt for the nation code.
// Expiry is deliberately not checked here: validity is the caller's policy
// and depends on the request clock.
func (s *InMemory) Latest(_ context.Context, code id.NationCode) (*models.ClassificationSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestLocked(code)
}

// LatestMany returns the latest schema per requested code. Codes with no
// rows are simply absent from the result; callers detect missing nations by
// explicit lookup against the returned map.
func (s *InMemory) LatestMany(_ context.Context, codes []id.NationCode) (map[id.NationCode]*models.ClassificationSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[id.NationCode]*models.ClassificationSchema, len(codes))
	for _, code := range codes {
		schema, err := s.latestLocked(code)
		if err != nil {
			continue
		}
		result[code] = schema
	}
	return result, nil
}

// ByNationAndVersion retrieves one historical version.
func (s *InMemory) ByNationAndVersion(_ context.Context, code id.NationCode, version string) (*models.ClassificationSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, schema := range s.byNation[code] {
		if schema.Version == version {
			copied := *schema
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// ListByNation returns all versions for a nation, newest first.
func (s *InMemory) ListByNation(_ context.Context, code id.NationCode) ([]*models.ClassificationSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := make([]*models.ClassificationSchema, 0, len(s.byNation[code]))
	for _, schema := range s.byNation[code] {
		copied := *schema
		versions = append(versions, &copied)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].CreatedAt.After(versions[j].CreatedAt)
	})
	return versions, nil
}

func (s *InMemory) latestLocked(code id.NationCode) (*models.ClassificationSchema, error) {
	versions := s.byNation[code]
	if len(versions) == 0 {
		return nil, sentinel.ErrNotFound
	}
	latest := versions[0]
	for _, schema := range versions[1:] {
		if schema.CreatedAt.After(latest.CreatedAt) {
			latest = schema
		}
	}
	copied := *latest
	return &copied, nil
}
