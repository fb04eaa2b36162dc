package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"crossclass/internal/directory/service"
	authoritystore "crossclass/internal/directory/store/authority"
	nationstore "crossclass/internal/directory/store/nation"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/audit"
	auditmemory "crossclass/pkg/platform/audit/store/memory"
	"crossclass/pkg/requestcontext"
)

type DirectorySuite struct {
	suite.Suite

	svc      *service.Service
	auditLog *auditmemory.Store
	ctx      context.Context
	now      time.Time
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.now = time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithUserID(
		requestcontext.WithTime(context.Background(), s.now), id.NewUserID())
	s.auditLog = auditmemory.New()
	s.svc = service.New(nationstore.NewInMemory(), authoritystore.NewInMemory(),
		service.WithAuditRecorder(s.auditLog))
}

func (s *DirectorySuite) TestCreateNation() {
	s.Run("normalizes the code and audits", func() {
		nation, err := s.svc.CreateNation(s.ctx, " usa ", "United States of America")
		s.Require().NoError(err)
		s.Equal(id.NationCode("USA"), nation.Code)
		s.Len(s.auditLog.ByAction(audit.ActionNationCreated), 1)
	})

	s.Run("duplicate code is a conflict", func() {
		_, err := s.svc.CreateNation(s.ctx, "GBR", "United Kingdom")
		s.Require().NoError(err)
		_, err = s.svc.CreateNation(s.ctx, "gbr", "Great Britain")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rejects malformed codes", func() {
		for _, raw := range []string{"", "US", "USAX", "U1A"} {
			_, err := s.svc.CreateNation(s.ctx, raw, "Nowhere")
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput), "code %q", raw)
		}
	})
}

func (s *DirectorySuite) TestAuthorities() {
	nation, err := s.svc.CreateNation(s.ctx, "FRA", "France")
	s.Require().NoError(err)

	s.Run("creates an authority for an existing nation", func() {
		authority, err := s.svc.CreateAuthority(s.ctx, nation.ID,
			"Secrétariat Général de la Défense", "sgdsn@example.fr", "+33 1 00 00 00 00", nil)
		s.Require().NoError(err)
		s.Equal(nation.ID, authority.NationID)
		s.Len(s.auditLog.ByAction(audit.ActionAuthorityCreated), 1)
	})

	s.Run("rejects an unknown nation", func() {
		_, err := s.svc.CreateAuthority(s.ctx, id.NewNationID(), "Ghost Authority", "", "", nil)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("require active authority honors expiry at the request clock", func() {
		expiry := s.now.Add(time.Hour)
		authority, err := s.svc.CreateAuthority(s.ctx, nation.ID,
			"Temporary Accreditor", "", "", &expiry)
		s.Require().NoError(err)

		_, err = s.svc.RequireActiveAuthority(s.ctx, authority.ID)
		s.NoError(err)

		afterExpiry := requestcontext.WithTime(s.ctx, s.now.Add(2*time.Hour))
		_, err = s.svc.RequireActiveAuthority(afterExpiry, authority.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeExpired))
	})
}

func (s *DirectorySuite) TestLookups() {
	nation, err := s.svc.CreateNation(s.ctx, "CAN", "Canada")
	s.Require().NoError(err)

	s.Run("by id and by code", func() {
		byID, err := s.svc.GetNation(s.ctx, nation.ID)
		s.Require().NoError(err)
		s.Equal(nation.Code, byID.Code)

		byCode, err := s.svc.GetNationByCode(s.ctx, "can")
		s.Require().NoError(err)
		s.Equal(nation.ID, byCode.ID)
	})

	s.Run("list is ordered by code", func() {
		_, err := s.svc.CreateNation(s.ctx, "AUS", "Australia")
		s.Require().NoError(err)
		nations, err := s.svc.ListNations(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(nations, 2)
		s.Equal(id.NationCode("AUS"), nations[0].Code)
		s.Equal(id.NationCode("CAN"), nations[1].Code)
	})
}
