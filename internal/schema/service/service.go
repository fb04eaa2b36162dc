// Package service exposes the classification schema registry: versioned,
// optionally expiring mapping tables keyed by nation code.
package service

import (
	"context"
	"errors"
	"time"

	schemametrics "crossclass/internal/schema/metrics"
	"crossclass/internal/schema/models"
	"crossclass/internal/schema/store"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/audit"
	"crossclass/pkg/platform/sentinel"
	"crossclass/pkg/requestcontext"
)

// Service orchestrates schema version registration and lookups.
type Service struct {
	schemas  store.Store
	recorder audit.Recorder
	metrics  *schemametrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

func WithMetrics(m *schemametrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(schemas store.Store, opts ...Option) *Service {
	s := &Service{
		schemas:  schemas,
		recorder: audit.Discard{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterVersion appends a new schema version for a nation. Existing
// versions are never modified; correcting a mapping means registering the
// next version. (nation code, version) collisions are conflicts.
func (s *Service) RegisterVersion(ctx context.Context, rawCode string, mappings models.Mappings,
	caveats, version string, authorityID id.AuthorityID, expiresAt *time.Time) (*models.ClassificationSchema, error) {

	code, err := id.ParseNationCode(rawCode)
	if err != nil {
		return nil, err
	}

	schema, err := models.NewSchema(code, mappings, caveats, version, authorityID,
		requestcontext.UserID(ctx), expiresAt, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.schemas.Create(ctx, schema); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "schema version %s already exists for nation %s", version, code)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register schema version")
	}

	s.metrics.IncrementVersionsRegistered()
	s.recorder.Record(ctx, audit.Fill(ctx, audit.Event{
		Action:  audit.ActionSchemaRegistered,
		Subject: schema.ID.String(),
		Outcome: audit.OutcomeSuccess,
	}))
	return schema, nil
}

// Latest returns the most recent schema version for a nation regardless of
// expiry. Consumers that need a usable schema should call LatestValid.
func (s *Service) Latest(ctx context.Context, rawCode string) (*models.ClassificationSchema, error) {
	code, err := id.ParseNationCode(rawCode)
	if err != nil {
		return nil, err
	}
	schema, err := s.schemas.Latest(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no classification schema registered for nation %s", code)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up schema")
	}
	return schema, nil
}

// LatestValid returns the most recent schema version, rejecting it when
// expired at the request clock. There is no fallback to older versions: an
// expired latest schema means the nation's mappings need renewal.
func (s *Service) LatestValid(ctx context.Context, rawCode string) (*models.ClassificationSchema, error) {
	schema, err := s.Latest(ctx, rawCode)
	if err != nil {
		return nil, err
	}
	if !schema.ValidAt(requestcontext.Now(ctx)) {
		s.metrics.IncrementExpiredRejections()
		return nil, dErrors.Newf(dErrors.CodeExpired, "classification schema for nation %s expired at %s",
			schema.NationCode, schema.ExpiresAt.Format(time.RFC3339))
	}
	return schema, nil
}

// Version retrieves one historical version.
func (s *Service) Version(ctx context.Context, rawCode, version string) (*models.ClassificationSchema, error) {
	code, err := id.ParseNationCode(rawCode)
	if err != nil {
		return nil, err
	}
	schema, err := s.schemas.ByNationAndVersion(ctx, code, version)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no schema version %s for nation %s", version, code)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up schema version")
	}
	return schema, nil
}

// History lists all versions for a nation, newest first.
func (s *Service) History(ctx context.Context, rawCode string) ([]*models.ClassificationSchema, error) {
	code, err := id.ParseNationCode(rawCode)
	if err != nil {
		return nil, err
	}
	versions, err := s.schemas.ListByNation(ctx, code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list schema versions")
	}
	return versions, nil
}
