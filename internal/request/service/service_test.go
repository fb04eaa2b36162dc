package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"crossclass/internal/conversion"
	directoryservice "crossclass/internal/directory/service"
	nationstore "crossclass/internal/directory/store/nation"
	authoritystore "crossclass/internal/directory/store/authority"
	"crossclass/internal/request/service"
	documentstore "crossclass/internal/request/store/document"
	metadatastore "crossclass/internal/request/store/metadata"
	requeststore "crossclass/internal/request/store/request"
	responsestore "crossclass/internal/request/store/response"
	schemamodels "crossclass/internal/schema/models"
	schemastore "crossclass/internal/schema/store"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/audit"
	auditmemory "crossclass/pkg/platform/audit/store/memory"
	"crossclass/pkg/requestcontext"
)

type LifecycleSuite struct {
	suite.Suite

	svc       *service.Service
	requests  *requeststore.InMemory
	responses *responsestore.InMemory
	documents *documentstore.InMemory
	schemas   *schemastore.InMemory
	auditLog  *auditmemory.Store

	ctx         context.Context
	now         time.Time
	creator     id.UserID
	authorityID id.AuthorityID
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.now = time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	s.creator = id.NewUserID()
	s.ctx = requestcontext.WithUserID(
		requestcontext.WithTime(context.Background(), s.now), s.creator)

	nations := nationstore.NewInMemory()
	authorities := authoritystore.NewInMemory()
	directory := directoryservice.New(nations, authorities)

	nation, err := directory.CreateNation(s.ctx, "USA", "United States of America")
	s.Require().NoError(err)
	authority, err := directory.CreateAuthority(s.ctx, nation.ID,
		"Defense Counterintelligence and Security Agency", "dcsa@example.mil", "", nil)
	s.Require().NoError(err)
	s.authorityID = authority.ID

	s.schemas = schemastore.NewInMemory()
	s.registerSchema("USA", schemamodels.Mappings{
		ToUnclassified: "UNCLASSIFIED", ToRestricted: "RESTRICTED",
		ToConfidential: "CONFIDENTIAL", ToSecret: "SECRET", ToTopSecret: "TOP SECRET",
		FromUnclassified: "UNCLASSIFIED", FromRestricted: "RESTRICTED",
		FromConfidential: "CONFIDENTIAL", FromSecret: "SECRET", FromTopSecret: "TOP SECRET",
	}, nil)
	s.registerSchema("GBR", schemamodels.Mappings{
		ToUnclassified: "OFFICIAL", ToRestricted: "OFFICIAL-SENSITIVE",
		ToConfidential: "CONFIDENTIAL", ToSecret: "SECRET", ToTopSecret: "TOP SECRET",
		FromUnclassified: "OFFICIAL", FromRestricted: "OFFICIAL-SENSITIVE",
		FromConfidential: "CONFIDENTIAL", FromSecret: "SECRET", FromTopSecret: "TOP SECRET",
	}, nil)
	s.registerSchema("FRA", schemamodels.Mappings{
		ToUnclassified: "Non Protégé", ToRestricted: "Diffusion Restreinte",
		ToConfidential: "Confidentiel Défense", ToSecret: "Secret Défense", ToTopSecret: "Très Secret Défense",
		FromUnclassified: "Non Protégé", FromRestricted: "Diffusion Restreinte",
		FromConfidential: "Confidentiel Défense", FromSecret: "Secret Défense", FromTopSecret: "Très Secret Défense",
	}, nil)

	s.requests = requeststore.NewInMemory()
	s.responses = responsestore.NewInMemory()
	s.documents = documentstore.NewInMemory()
	s.auditLog = auditmemory.New()

	s.svc = service.New(s.requests, s.responses, s.documents,
		metadatastore.NewInMemory(), directory, conversion.NewStrict(s.schemas),
		service.WithAuditRecorder(s.auditLog))
}

func (s *LifecycleSuite) registerSchema(code id.NationCode, mappings schemamodels.Mappings, expiresAt *time.Time) {
	schema, err := schemamodels.NewSchema(code, mappings, "", "1.0",
		s.authorityID, s.creator, expiresAt, s.now.Add(-time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.schemas.Create(s.ctx, schema))
}

func (s *LifecycleSuite) submitInput() service.SubmitInput {
	return service.SubmitInput{
		AuthorityID:          s.authorityID,
		SourceNationCode:     "USA",
		SourceClassification: "SECRET",
		TargetNationCodes:    []string{"GBR", "FRA"},
		DocumentTitle:        "Maritime patrol summary",
		DocumentDescription:  "Weekly activity report",
		Identifier:            "USN-2024-0117",
		OriginatorAuthorityID: s.authorityID,
		CustodianAuthorityID:  s.authorityID,
		Format:                "PDF",
		ReleasableTo:          []string{"GBR", "FRA"},
		ReleasableToOrgs:      []string{"NATO"},
		HandlingRestrictions:  "NOFORN",
		HandlingAuthority:     "DoDM 5200.01",
		Domain:                "maritime",
		Tags:                  []string{"patrol", "weekly"},
	}
}

func (s *LifecycleSuite) TestSubmit() {
	s.Run("creates a pending request with its subject artifacts", func() {
		request, err := s.svc.Submit(s.ctx, s.submitInput())
		s.Require().NoError(err)

		s.False(request.IsCompleted())
		s.Equal(s.creator, request.CreatorID)
		s.Equal(id.NationCode("USA"), request.SourceCode)
		s.Equal([]id.NationCode{"GBR", "FRA"}, request.TargetCodes)

		document, err := s.svc.GetDocument(s.ctx, request.DocumentID)
		s.Require().NoError(err)
		s.Equal("Maritime patrol summary", document.Title)

		meta, err := s.svc.GetMetadataByDocument(s.ctx, request.DocumentID)
		s.Require().NoError(err)
		s.Equal("USN-2024-0117", meta.Identifier)
		s.Equal("SECRET", meta.SecurityClassification)
		s.Equal([]id.NationCode{"GBR", "FRA"}, meta.ReleasableTo)
		s.Equal([]string{"NATO"}, meta.ReleasableToOrgs)
		s.Equal("NOFORN", meta.HandlingRestrictions)
		s.Equal([]string{"patrol", "weekly"}, meta.Tags)

		s.Len(s.auditLog.ByAction(audit.ActionRequestSubmitted), 1)
	})

	s.Run("rejects an empty target list", func() {
		input := s.submitInput()
		input.TargetNationCodes = nil
		_, err := s.svc.Submit(s.ctx, input)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejects targets that include the source nation", func() {
		input := s.submitInput()
		input.TargetNationCodes = []string{"GBR", "USA"}
		_, err := s.svc.Submit(s.ctx, input)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejects an unknown authority", func() {
		input := s.submitInput()
		input.AuthorityID = id.NewAuthorityID()
		_, err := s.svc.Submit(s.ctx, input)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("resubmission creates a second request and document", func() {
		first, err := s.svc.Submit(s.ctx, s.submitInput())
		s.Require().NoError(err)
		second, err := s.svc.Submit(s.ctx, s.submitInput())
		s.Require().NoError(err)
		s.NotEqual(first.ID, second.ID)
		s.NotEqual(first.DocumentID, second.DocumentID)
	})
}

func (s *LifecycleSuite) TestProcessAndConvert() {
	s.Run("completes the request and persists one response", func() {
		request, err := s.svc.Submit(s.ctx, s.submitInput())
		s.Require().NoError(err)

		response, err := s.svc.ProcessAndConvert(s.ctx, request.ID)
		s.Require().NoError(err)

		s.Equal(request.ID, response.RequestID)
		s.Equal(request.DocumentID, response.DocumentID)
		s.Equal(id.ReferenceSecret, response.ReferenceClassification)
		s.Equal("SECRET", response.TargetClassifications["GBR"])
		s.Equal("Secret Défense", response.TargetClassifications["FRA"])

		stored, err := s.svc.GetRequest(s.ctx, request.ID)
		s.Require().NoError(err)
		s.True(stored.IsCompleted())
		s.Equal(s.now, *stored.CompletedAt)

		s.Len(s.auditLog.ByAction(audit.ActionRequestProcessed), 1)
	})

	s.Run("second processing of a completed request is rejected", func() {
		request, err := s.svc.Submit(s.ctx, s.submitInput())
		s.Require().NoError(err)
		_, err = s.svc.ProcessAndConvert(s.ctx, request.ID)
		s.Require().NoError(err)

		_, err = s.svc.ProcessAndConvert(s.ctx, request.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		response, err := s.svc.GetResponse(s.ctx, request.ID)
		s.Require().NoError(err)
		s.NotNil(response)
	})

	s.Run("engine failure leaves the request pending", func() {
		input := s.submitInput()
		input.SourceClassification = "ULTRA CLASSIFIED"
		request, err := s.svc.Submit(s.ctx, input)
		s.Require().NoError(err)

		_, err = s.svc.ProcessAndConvert(s.ctx, request.ID)
		var unknown *conversion.UnknownClassificationError
		s.ErrorAs(err, &unknown)
		s.Equal("ULTRA CLASSIFIED", unknown.Input)

		stored, err := s.svc.GetRequest(s.ctx, request.ID)
		s.Require().NoError(err)
		s.False(stored.IsCompleted())
		_, err = s.svc.GetResponse(s.ctx, request.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		s.Len(s.auditLog.ByAction(audit.ActionConversionFailed), 1)
	})

	s.Run("failed request can be retried after the problem is fixed", func() {
		input := s.submitInput()
		input.TargetNationCodes = []string{"DEU"}
		request, err := s.svc.Submit(s.ctx, input)
		s.Require().NoError(err)

		_, err = s.svc.ProcessAndConvert(s.ctx, request.ID)
		var notFound *conversion.SchemaNotFoundError
		s.Require().ErrorAs(err, &notFound)

		s.registerSchema("DEU", schemamodels.Mappings{
			ToUnclassified: "Offen", ToRestricted: "VS-NfD",
			ToConfidential: "VS-Vertraulich", ToSecret: "Geheim", ToTopSecret: "Streng Geheim",
			FromUnclassified: "Offen", FromRestricted: "VS-NfD",
			FromConfidential: "VS-Vertraulich", FromSecret: "Geheim", FromTopSecret: "Streng Geheim",
		}, nil)

		response, err := s.svc.ProcessAndConvert(s.ctx, request.ID)
		s.Require().NoError(err)
		s.Equal("Geheim", response.TargetClassifications["DEU"])
	})

	s.Run("unknown request", func() {
		_, err := s.svc.ProcessAndConvert(s.ctx, id.NewRequestID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LifecycleSuite) TestConcurrentProcessing() {
	request, err := s.svc.Submit(s.ctx, s.submitInput())
	s.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.svc.ProcessAndConvert(s.ctx, request.ID)
		}(i)
	}
	wg.Wait()

	// Every goroutine either shared the winning execution or was rejected
	// with a conflict; there is exactly one response either way.
	for _, err := range errs {
		if err != nil {
			s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		}
	}
	response, err := s.svc.GetResponse(s.ctx, request.ID)
	s.Require().NoError(err)
	s.Equal(request.ID, response.RequestID)
}

func (s *LifecycleSuite) TestQueries() {
	input := s.submitInput()
	request, err := s.svc.Submit(s.ctx, input)
	s.Require().NoError(err)

	s.Run("by creator", func() {
		requests, err := s.svc.ListRequestsByCreator(s.ctx, s.creator)
		s.Require().NoError(err)
		s.Len(requests, 1)
		s.Equal(request.ID, requests[0].ID)
	})

	s.Run("by source and target nation", func() {
		bySource, err := s.svc.ListRequestsBySourceNation(s.ctx, "usa")
		s.Require().NoError(err)
		s.Len(bySource, 1)

		byTarget, err := s.svc.ListRequestsByTargetNation(s.ctx, "FRA")
		s.Require().NoError(err)
		s.Len(byTarget, 1)

		none, err := s.svc.ListRequestsByTargetNation(s.ctx, "JPN")
		s.Require().NoError(err)
		s.Empty(none)
	})

	s.Run("pending then completed", func() {
		pending, err := s.svc.ListPendingRequests(s.ctx)
		s.Require().NoError(err)
		s.Len(pending, 1)

		_, err = s.svc.ProcessAndConvert(s.ctx, request.ID)
		s.Require().NoError(err)

		pending, err = s.svc.ListPendingRequests(s.ctx)
		s.Require().NoError(err)
		s.Empty(pending)

		completed, err := s.svc.ListCompletedRequests(s.ctx)
		s.Require().NoError(err)
		s.Len(completed, 1)
	})

	s.Run("request by document id", func() {
		found, err := s.svc.GetRequestByDocument(s.ctx, request.DocumentID)
		s.Require().NoError(err)
		s.Equal(request.ID, found.ID)
	})
}
