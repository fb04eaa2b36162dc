// Package service orchestrates the conversion request lifecycle: intake of a
// request with its subject artifacts, delegation to the conversion engine,
// and persistence of the immutable response.
//
// Intake and conversion are deliberately decoupled. Submit accepts a request
// without converting it, so requests can be queued; ProcessAndConvert is the
// explicit second step and is the only path that completes a request.
package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"crossclass/internal/conversion"
	directorymodels "crossclass/internal/directory/models"
	"crossclass/internal/request/metrics"
	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/audit"
	"crossclass/pkg/platform/sentinel"
	"crossclass/pkg/requestcontext"
)

// RequestStore is the persistence contract for conversion requests.
type RequestStore interface {
	Create(ctx context.Context, request *models.ConversionRequest) error
	FindByID(ctx context.Context, requestID id.RequestID) (*models.ConversionRequest, error)
	FindByDocumentID(ctx context.Context, documentID id.DocumentID) (*models.ConversionRequest, error)
	Update(ctx context.Context, request *models.ConversionRequest) error
	ListByCreator(ctx context.Context, creator id.UserID) ([]*models.ConversionRequest, error)
	ListByAuthority(ctx context.Context, authorityID id.AuthorityID) ([]*models.ConversionRequest, error)
	ListBySourceNation(ctx context.Context, code id.NationCode) ([]*models.ConversionRequest, error)
	ListByTargetNation(ctx context.Context, code id.NationCode) ([]*models.ConversionRequest, error)
	ListPending(ctx context.Context) ([]*models.ConversionRequest, error)
	ListCompleted(ctx context.Context) ([]*models.ConversionRequest, error)
}

// ResponseStore is the persistence contract for conversion responses. Create
// must reject a second response for the same request with a conflict.
type ResponseStore interface {
	Create(ctx context.Context, response *models.ConversionResponse) error
	FindByID(ctx context.Context, responseID id.ResponseID) (*models.ConversionResponse, error)
	FindByRequestID(ctx context.Context, requestID id.RequestID) (*models.ConversionResponse, error)
	FindByDocumentID(ctx context.Context, documentID id.DocumentID) (*models.ConversionResponse, error)
}

// DocumentStore is the persistence contract for subject documents.
type DocumentStore interface {
	Create(ctx context.Context, document *models.Document) error
	FindByID(ctx context.Context, documentID id.DocumentID) (*models.Document, error)
}

// MetadataStore is the persistence contract for document metadata.
type MetadataStore interface {
	Create(ctx context.Context, meta *models.Metadata) error
	FindByDocumentID(ctx context.Context, documentID id.DocumentID) (*models.Metadata, error)
}

// AuthorityDirectory verifies the requesting authority before intake.
type AuthorityDirectory interface {
	RequireActiveAuthority(ctx context.Context, authorityID id.AuthorityID) (*directorymodels.Authority, error)
}

// Service exposes the request lifecycle operations.
type Service struct {
	requests  RequestStore
	responses ResponseStore
	documents DocumentStore
	metadata  MetadataStore
	directory AuthorityDirectory
	converter conversion.Converter

	// processing collapses concurrent ProcessAndConvert calls for the same
	// request into one execution. The response store's uniqueness constraint
	// is the backstop for multi-process deployments.
	processing singleflight.Group

	recorder audit.Recorder
	metrics  *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithAuditRecorder routes lifecycle events to an audit sink.
func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// WithMetrics attaches Prometheus counters to the lifecycle.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(requests RequestStore, responses ResponseStore, documents DocumentStore,
	meta MetadataStore, directory AuthorityDirectory, converter conversion.Converter,
	opts ...Option) *Service {

	s := &Service{
		requests:  requests,
		responses: responses,
		documents: documents,
		metadata:  meta,
		directory: directory,
		converter: converter,
		recorder:  audit.Discard{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitInput is the intake payload: the classification to convert plus the
// subject document and its provenance.
type SubmitInput struct {
	AuthorityID          id.AuthorityID
	SourceNationCode     string
	SourceClassification string
	TargetNationCodes    []string

	DocumentTitle       string
	DocumentDescription string

	Identifier                 string
	OriginatorAuthorityID      id.AuthorityID
	CustodianAuthorityID       id.AuthorityID
	Format                     string
	FormatSize                 *int64
	ReleasableTo               []string
	ReleasableToOrgs           []string
	ReleasableToCategories     []string
	DisclosureCategory         string
	HandlingRestrictions       string
	HandlingAuthority          string
	NoHandlingRestrictions     bool
	AuthorizationReference     *string
	AuthorizationReferenceDate *time.Time
	Domain                     string
	Tags                       []string
}

// Submit validates the payload, creates the subject document and metadata,
// and persists a pending request. Conversion does not happen here.
//
// Submit is not idempotent: resubmitting an identical payload creates a new
// document and a new request. Deduplication is the caller's concern.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*models.ConversionRequest, error) {
	source, err := id.ParseNationCode(input.SourceNationCode)
	if err != nil {
		return nil, err
	}
	targets, err := id.ParseNationCodes(input.TargetNationCodes)
	if err != nil {
		return nil, err
	}
	releasable, err := id.ParseNationCodes(input.ReleasableTo)
	if err != nil {
		return nil, err
	}

	if _, err := s.directory.RequireActiveAuthority(ctx, input.AuthorityID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	creator := requestcontext.UserID(ctx)

	document, err := models.NewDocument(creator, input.DocumentTitle, input.DocumentDescription, now)
	if err != nil {
		return nil, err
	}
	meta, err := models.NewMetadata(document.ID, creator, models.MetadataParams{
		Identifier:                 input.Identifier,
		OriginatorAuthorityID:      input.OriginatorAuthorityID,
		CustodianAuthorityID:       input.CustodianAuthorityID,
		Format:                     input.Format,
		FormatSize:                 input.FormatSize,
		SecurityClassification:     input.SourceClassification,
		ReleasableTo:               releasable,
		ReleasableToOrgs:           input.ReleasableToOrgs,
		ReleasableToCategories:     input.ReleasableToCategories,
		DisclosureCategory:         input.DisclosureCategory,
		HandlingRestrictions:       input.HandlingRestrictions,
		HandlingAuthority:          input.HandlingAuthority,
		NoHandlingRestrictions:     input.NoHandlingRestrictions,
		AuthorizationReference:     input.AuthorizationReference,
		AuthorizationReferenceDate: input.AuthorizationReferenceDate,
		Domain:                     input.Domain,
		Tags:                       input.Tags,
	}, now)
	if err != nil {
		return nil, err
	}
	request, err := models.NewConversionRequest(creator, input.AuthorityID, document.ID,
		source, input.SourceClassification, targets, now)
	if err != nil {
		return nil, err
	}

	if err := s.documents.Create(ctx, document); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create document")
	}
	if err := s.metadata.Create(ctx, meta); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create metadata")
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create conversion request")
	}

	s.metrics.IncrementRequestsSubmitted()
	s.recorder.Record(ctx, audit.Fill(ctx, audit.Event{
		Action:  audit.ActionRequestSubmitted,
		Subject: request.ID.String(),
		Outcome: audit.OutcomeSuccess,
	}))
	return request, nil
}

// ProcessAndConvert runs the conversion for a pending request and, on
// success, persists exactly one response and completes the request.
//
// Engine errors are returned to the caller unchanged and leave the request
// pending; it may be retried later, for example after an expired schema has
// been renewed. Expiry is judged at processing time, so the same request can
// succeed on a later attempt without modification.
//
// An already completed request is rejected with a conflict; the existing
// response is the authoritative outcome and is never replaced.
func (s *Service) ProcessAndConvert(ctx context.Context, requestID id.RequestID) (*models.ConversionResponse, error) {
	result, err, _ := s.processing.Do(requestID.String(), func() (any, error) {
		return s.processOne(ctx, requestID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.ConversionResponse), nil
}

func (s *Service) processOne(ctx context.Context, requestID id.RequestID) (*models.ConversionResponse, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "conversion request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up conversion request")
	}
	if request.IsCompleted() {
		return nil, dErrors.Newf(dErrors.CodeConflict,
			"conversion request %s is already completed", request.ID)
	}

	outcome, err := s.converter.Convert(ctx, request.SourceCode,
		request.SourceClassification, request.TargetCodes)
	if err != nil {
		s.metrics.IncrementConversionFailures()
		s.recorder.Record(ctx, audit.Fill(ctx, audit.Event{
			Action:  audit.ActionConversionFailed,
			Subject: request.ID.String(),
			Outcome: audit.OutcomeFailure,
			Reason:  err.Error(),
		}))
		return nil, err
	}

	now := requestcontext.Now(ctx)
	response := models.NewConversionResponse(request.ID, request.DocumentID,
		outcome.Reference, outcome.Targets, outcome.ExpiresAt, now)

	if err := s.responses.Create(ctx, response); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict,
				"conversion request %s already has a response", request.ID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist conversion response")
	}

	if err := request.MarkCompleted(now); err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to complete conversion request")
	}

	s.metrics.IncrementRequestsCompleted()
	s.recorder.Record(ctx, audit.Fill(ctx, audit.Event{
		Action:  audit.ActionRequestProcessed,
		Subject: request.ID.String(),
		Outcome: audit.OutcomeSuccess,
	}))
	return response, nil
}
