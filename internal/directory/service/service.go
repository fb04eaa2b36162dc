// Package service orchestrates the organization directory: nations and the
// accrediting authorities that act on their behalf. The conversion engine
// treats this directory as read-only foreign-key context.
package service

import (
	"context"
	"errors"
	"time"

	"crossclass/internal/directory/models"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/audit"
	"crossclass/pkg/platform/sentinel"
	"crossclass/pkg/requestcontext"
)

// NationStore is the persistence contract for nations.
type NationStore interface {
	Create(ctx context.Context, nation *models.Nation) error
	FindByID(ctx context.Context, nationID id.NationID) (*models.Nation, error)
	FindByCode(ctx context.Context, code id.NationCode) (*models.Nation, error)
	List(ctx context.Context) ([]*models.Nation, error)
}

// AuthorityStore is the persistence contract for authorities.
type AuthorityStore interface {
	Create(ctx context.Context, authority *models.Authority) error
	FindByID(ctx context.Context, authorityID id.AuthorityID) (*models.Authority, error)
	ListByNation(ctx context.Context, nationID id.NationID) ([]*models.Authority, error)
}

// Service exposes directory operations.
type Service struct {
	nations     NationStore
	authorities AuthorityStore
	recorder    audit.Recorder
}

// Option configures the Service.
type Option func(*Service)

// WithAuditRecorder routes directory mutations to an audit sink.
func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

func New(nations NationStore, authorities AuthorityStore, opts ...Option) *Service {
	s := &Service{
		nations:     nations,
		authorities: authorities,
		recorder:    audit.Discard{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateNation registers a new nation with a unique code.
func (s *Service) CreateNation(ctx context.Context, rawCode, name string) (*models.Nation, error) {
	code, err := id.ParseNationCode(rawCode)
	if err != nil {
		return nil, err
	}

	nation, err := models.NewNation(code, name, requestcontext.UserID(ctx), requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.nations.Create(ctx, nation); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "nation code %s already registered", code)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create nation")
	}

	s.recorder.Record(ctx, audit.Fill(ctx, audit.Event{
		Action:  audit.ActionNationCreated,
		Subject: nation.ID.String(),
		Outcome: audit.OutcomeSuccess,
	}))
	return nation, nil
}

// CreateAuthority registers an accrediting authority for an existing nation.
func (s *Service) CreateAuthority(ctx context.Context, nationID id.NationID, name, email, phone string, expiresAt *time.Time) (*models.Authority, error) {
	if _, err := s.nations.FindByID(ctx, nationID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "nation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up nation")
	}

	authority, err := models.NewAuthority(nationID, name, email, phone,
		requestcontext.UserID(ctx), expiresAt, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.authorities.Create(ctx, authority); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create authority")
	}

	s.recorder.Record(ctx, audit.Fill(ctx, audit.Event{
		Action:  audit.ActionAuthorityCreated,
		Subject: authority.ID.String(),
		Outcome: audit.OutcomeSuccess,
	}))
	return authority, nil
}

// GetNation retrieves a nation by ID.
func (s *Service) GetNation(ctx context.Context, nationID id.NationID) (*models.Nation, error) {
	nation, err := s.nations.FindByID(ctx, nationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "nation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up nation")
	}
	return nation, nil
}

// GetNationByCode retrieves a nation by its three-letter code.
func (s *Service) GetNationByCode(ctx context.Context, rawCode string) (*models.Nation, error) {
	code, err := id.ParseNationCode(rawCode)
	if err != nil {
		return nil, err
	}
	nation, err := s.nations.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no nation registered with code %s", code)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up nation")
	}
	return nation, nil
}

// ListNations returns all registered nations ordered by code.
func (s *Service) ListNations(ctx context.Context) ([]*models.Nation, error) {
	nations, err := s.nations.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list nations")
	}
	return nations, nil
}

// RequireActiveAuthority resolves an authority and verifies both existence
// and accreditation validity at the request clock. The request lifecycle
// calls this before accepting a conversion request.
func (s *Service) RequireActiveAuthority(ctx context.Context, authorityID id.AuthorityID) (*models.Authority, error) {
	authority, err := s.authorities.FindByID(ctx, authorityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "authority not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up authority")
	}
	if !authority.ValidAt(requestcontext.Now(ctx)) {
		return nil, dErrors.Newf(dErrors.CodeExpired, "authority %s accreditation has expired", authority.Name)
	}
	return authority, nil
}

// ListAuthorities returns a nation's authorities ordered by name.
func (s *Service) ListAuthorities(ctx context.Context, nationID id.NationID) ([]*models.Authority, error) {
	authorities, err := s.authorities.ListByNation(ctx, nationID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list authorities")
	}
	return authorities, nil
}
