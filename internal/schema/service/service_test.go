package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"crossclass/internal/schema/models"
	"crossclass/internal/schema/service"
	"crossclass/internal/schema/store"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/audit"
	auditmemory "crossclass/pkg/platform/audit/store/memory"
	"crossclass/pkg/requestcontext"
)

type RegistrySuite struct {
	suite.Suite

	svc      *service.Service
	auditLog *auditmemory.Store
	ctx      context.Context
	now      time.Time
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.now = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithUserID(
		requestcontext.WithTime(context.Background(), s.now), id.NewUserID())
	s.auditLog = auditmemory.New()
	s.svc = service.New(store.NewInMemory(), service.WithAuditRecorder(s.auditLog))
}

func (s *RegistrySuite) mappings() models.Mappings {
	return models.Mappings{
		ToUnclassified: "UNCLASSIFIED", ToRestricted: "RESTRICTED",
		ToConfidential: "CONFIDENTIAL", ToSecret: "SECRET", ToTopSecret: "TOP SECRET",
		FromUnclassified: "UNCLASSIFIED", FromRestricted: "RESTRICTED",
		FromConfidential: "CONFIDENTIAL", FromSecret: "SECRET", FromTopSecret: "TOP SECRET",
	}
}

func (s *RegistrySuite) TestRegisterVersion() {
	s.Run("registers and audits a new version", func() {
		schema, err := s.svc.RegisterVersion(s.ctx, "usa", s.mappings(), "REL TO NATO", "1.0",
			id.NewAuthorityID(), nil)
		s.Require().NoError(err)

		s.Equal(id.NationCode("USA"), schema.NationCode)
		s.Equal("1.0", schema.Version)
		s.Equal("REL TO NATO", schema.Caveats)
		s.Len(s.auditLog.ByAction(audit.ActionSchemaRegistered), 1)
	})

	s.Run("duplicate version is a conflict", func() {
		_, err := s.svc.RegisterVersion(s.ctx, "GBR", s.mappings(), "", "1.0", id.NewAuthorityID(), nil)
		s.Require().NoError(err)
		_, err = s.svc.RegisterVersion(s.ctx, "GBR", s.mappings(), "", "1.0", id.NewAuthorityID(), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rejects incomplete mappings", func() {
		incomplete := s.mappings()
		incomplete.FromTopSecret = ""
		_, err := s.svc.RegisterVersion(s.ctx, "FRA", incomplete, "", "1.0", id.NewAuthorityID(), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("rejects a malformed nation code", func() {
		_, err := s.svc.RegisterVersion(s.ctx, "US", s.mappings(), "", "1.0", id.NewAuthorityID(), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *RegistrySuite) TestLatest() {
	s.Run("newest created_at wins", func() {
		_, err := s.svc.RegisterVersion(s.ctx, "USA", s.mappings(), "", "1.0", id.NewAuthorityID(), nil)
		s.Require().NoError(err)

		laterCtx := requestcontext.WithTime(s.ctx, s.now.Add(time.Hour))
		_, err = s.svc.RegisterVersion(laterCtx, "USA", s.mappings(), "updated", "2.0", id.NewAuthorityID(), nil)
		s.Require().NoError(err)

		latest, err := s.svc.Latest(s.ctx, "USA")
		s.Require().NoError(err)
		s.Equal("2.0", latest.Version)
	})

	s.Run("unknown nation", func() {
		_, err := s.svc.Latest(s.ctx, "XYZ")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("latest ignores expiry, latest valid does not", func() {
		expired := s.now.Add(-time.Minute)
		_, err := s.svc.RegisterVersion(s.ctx, "DEU", s.mappings(), "", "1.0", id.NewAuthorityID(), &expired)
		s.Require().NoError(err)

		_, err = s.svc.Latest(s.ctx, "DEU")
		s.NoError(err)

		_, err = s.svc.LatestValid(s.ctx, "DEU")
		s.True(dErrors.HasCode(err, dErrors.CodeExpired))
	})

	s.Run("validity is judged at the request clock", func() {
		expiry := s.now.Add(time.Hour)
		_, err := s.svc.RegisterVersion(s.ctx, "ITA", s.mappings(), "", "1.0", id.NewAuthorityID(), &expiry)
		s.Require().NoError(err)

		_, err = s.svc.LatestValid(s.ctx, "ITA")
		s.NoError(err)

		afterExpiry := requestcontext.WithTime(s.ctx, s.now.Add(2*time.Hour))
		_, err = s.svc.LatestValid(afterExpiry, "ITA")
		s.True(dErrors.HasCode(err, dErrors.CodeExpired))
	})
}

func (s *RegistrySuite) TestHistory() {
	_, err := s.svc.RegisterVersion(s.ctx, "USA", s.mappings(), "", "1.0", id.NewAuthorityID(), nil)
	s.Require().NoError(err)
	laterCtx := requestcontext.WithTime(s.ctx, s.now.Add(time.Hour))
	_, err = s.svc.RegisterVersion(laterCtx, "USA", s.mappings(), "", "1.1", id.NewAuthorityID(), nil)
	s.Require().NoError(err)

	s.Run("lists versions newest first", func() {
		history, err := s.svc.History(s.ctx, "USA")
		s.Require().NoError(err)
		s.Require().Len(history, 2)
		s.Equal("1.1", history[0].Version)
		s.Equal("1.0", history[1].Version)
	})

	s.Run("retrieves one historical version", func() {
		schema, err := s.svc.Version(s.ctx, "USA", "1.0")
		s.Require().NoError(err)
		s.Equal("1.0", schema.Version)

		_, err = s.svc.Version(s.ctx, "USA", "9.9")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
