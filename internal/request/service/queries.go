package service

import (
	"context"
	"errors"

	"crossclass/internal/request/models"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/sentinel"
)

// Read-path conveniences over the lifecycle stores. None of these
// participate in the conversion algorithm.

func (s *Service) GetRequest(ctx context.Context, requestID id.RequestID) (*models.ConversionRequest, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "conversion request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up conversion request")
	}
	return request, nil
}

func (s *Service) GetRequestByDocument(ctx context.Context, documentID id.DocumentID) (*models.ConversionRequest, error) {
	request, err := s.requests.FindByDocumentID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no conversion request for document")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up conversion request")
	}
	return request, nil
}

// GetResponse returns the response for a processed request, or not-found
// while the request is still pending.
func (s *Service) GetResponse(ctx context.Context, requestID id.RequestID) (*models.ConversionResponse, error) {
	response, err := s.responses.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "conversion request has no response yet")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up conversion response")
	}
	return response, nil
}

func (s *Service) GetDocument(ctx context.Context, documentID id.DocumentID) (*models.Document, error) {
	document, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up document")
	}
	return document, nil
}

func (s *Service) GetMetadataByDocument(ctx context.Context, documentID id.DocumentID) (*models.Metadata, error) {
	meta, err := s.metadata.FindByDocumentID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document has no metadata")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up metadata")
	}
	return meta, nil
}

func (s *Service) ListRequestsByCreator(ctx context.Context, creator id.UserID) ([]*models.ConversionRequest, error) {
	requests, err := s.requests.ListByCreator(ctx, creator)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list conversion requests")
	}
	return requests, nil
}

func (s *Service) ListRequestsByAuthority(ctx context.Context, authorityID id.AuthorityID) ([]*models.ConversionRequest, error) {
	requests, err := s.requests.ListByAuthority(ctx, authorityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list conversion requests")
	}
	return requests, nil
}

func (s *Service) ListRequestsBySourceNation(ctx context.Context, rawCode string) ([]*models.ConversionRequest, error) {
	code, err := id.ParseNationCode(rawCode)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListBySourceNation(ctx, code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list conversion requests")
	}
	return requests, nil
}

func (s *Service) ListRequestsByTargetNation(ctx context.Context, rawCode string) ([]*models.ConversionRequest, error) {
	code, err := id.ParseNationCode(rawCode)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByTargetNation(ctx, code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list conversion requests")
	}
	return requests, nil
}

func (s *Service) ListPendingRequests(ctx context.Context) ([]*models.ConversionRequest, error) {
	requests, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending requests")
	}
	return requests, nil
}

func (s *Service) ListCompletedRequests(ctx context.Context) ([]*models.ConversionRequest, error) {
	requests, err := s.requests.ListCompleted(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list completed requests")
	}
	return requests, nil
}
