package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crossclass/internal/conversion"
	"crossclass/internal/request/models"
	"crossclass/internal/request/service"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/httputil"
	"crossclass/pkg/requestcontext"
)

// Service defines the interface for conversion lifecycle operations.
type Service interface {
	Submit(ctx context.Context, input service.SubmitInput) (*models.ConversionRequest, error)
	ProcessAndConvert(ctx context.Context, requestID id.RequestID) (*models.ConversionResponse, error)
	GetRequest(ctx context.Context, requestID id.RequestID) (*models.ConversionRequest, error)
	GetRequestByDocument(ctx context.Context, documentID id.DocumentID) (*models.ConversionRequest, error)
	GetResponse(ctx context.Context, requestID id.RequestID) (*models.ConversionResponse, error)
	GetDocument(ctx context.Context, documentID id.DocumentID) (*models.Document, error)
	GetMetadataByDocument(ctx context.Context, documentID id.DocumentID) (*models.Metadata, error)
	ListRequestsByCreator(ctx context.Context, creator id.UserID) ([]*models.ConversionRequest, error)
	ListRequestsByAuthority(ctx context.Context, authorityID id.AuthorityID) ([]*models.ConversionRequest, error)
	ListRequestsBySourceNation(ctx context.Context, rawCode string) ([]*models.ConversionRequest, error)
	ListRequestsByTargetNation(ctx context.Context, rawCode string) ([]*models.ConversionRequest, error)
	ListPendingRequests(ctx context.Context) ([]*models.ConversionRequest, error)
	ListCompletedRequests(ctx context.Context) ([]*models.ConversionRequest, error)
}

// Handler wires conversion lifecycle endpoints to the lifecycle service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts lifecycle endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/requests", h.HandleSubmit)
	r.Get("/requests", h.HandleListRequests)
	r.Get("/requests/{requestID}", h.HandleGetRequest)
	r.Post("/requests/{requestID}/process", h.HandleProcess)
	r.Get("/requests/{requestID}/response", h.HandleGetResponse)
	r.Get("/documents/{documentID}", h.HandleGetDocument)
	r.Get("/documents/{documentID}/metadata", h.HandleGetMetadata)
	r.Get("/documents/{documentID}/request", h.HandleGetRequestByDocument)
}

// HandleSubmit handles POST /requests: intake only, no conversion.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[submitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	request, err := h.service.Submit(ctx, req.toInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "conversion request intake failed",
			"request_id", requestID,
			"source_nation", req.SourceNationCode,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "conversion request submitted",
		"request_id", requestID,
		"conversion_request_id", request.ID,
		"source_nation", request.SourceCode,
		"target_count", len(request.TargetCodes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, fromRequest(request))
}

// HandleProcess handles POST /requests/{requestID}/process: runs the
// conversion and completes the request.
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	conversionRequestID, ok := h.requestIDParam(w, r)
	if !ok {
		return
	}

	response, err := h.service.ProcessAndConvert(ctx, conversionRequestID)
	if err != nil {
		h.logger.ErrorContext(ctx, "conversion processing failed",
			"request_id", requestID,
			"conversion_request_id", conversionRequestID,
			"error", err,
		)
		httputil.WriteError(w, codeConversionError(err))
		return
	}

	h.logger.InfoContext(ctx, "conversion request processed",
		"request_id", requestID,
		"conversion_request_id", conversionRequestID,
		"reference_classification", response.ReferenceClassification,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromResponse(response))
}

func (h *Handler) HandleGetRequest(w http.ResponseWriter, r *http.Request) {
	conversionRequestID, ok := h.requestIDParam(w, r)
	if !ok {
		return
	}
	request, err := h.service.GetRequest(r.Context(), conversionRequestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRequest(request))
}

func (h *Handler) HandleGetResponse(w http.ResponseWriter, r *http.Request) {
	conversionRequestID, ok := h.requestIDParam(w, r)
	if !ok {
		return
	}
	response, err := h.service.GetResponse(r.Context(), conversionRequestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromResponse(response))
}

// HandleListRequests handles GET /requests with optional filters. Without a
// filter it lists the caller's own requests.
func (h *Handler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var (
		requests []*models.ConversionRequest
		err      error
	)
	switch {
	case query.Get("authority_id") != "":
		var authorityID id.AuthorityID
		if uerr := authorityID.UnmarshalText([]byte(query.Get("authority_id"))); uerr != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "malformed authority id"))
			return
		}
		requests, err = h.service.ListRequestsByAuthority(ctx, authorityID)
	case query.Get("source") != "":
		requests, err = h.service.ListRequestsBySourceNation(ctx, query.Get("source"))
	case query.Get("target") != "":
		requests, err = h.service.ListRequestsByTargetNation(ctx, query.Get("target"))
	case query.Get("status") == "pending":
		requests, err = h.service.ListPendingRequests(ctx)
	case query.Get("status") == "completed":
		requests, err = h.service.ListCompletedRequests(ctx)
	default:
		userID := requestcontext.UserID(ctx)
		if userID == (id.UserID{}) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
			return
		}
		requests, err = h.service.ListRequestsByCreator(ctx, userID)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRequests(requests))
}

func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := h.documentIDParam(w, r)
	if !ok {
		return
	}
	document, err := h.service.GetDocument(r.Context(), documentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, document)
}

func (h *Handler) HandleGetMetadata(w http.ResponseWriter, r *http.Request) {
	documentID, ok := h.documentIDParam(w, r)
	if !ok {
		return
	}
	meta, err := h.service.GetMetadataByDocument(r.Context(), documentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, meta)
}

func (h *Handler) HandleGetRequestByDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := h.documentIDParam(w, r)
	if !ok {
		return
	}
	request, err := h.service.GetRequestByDocument(r.Context(), documentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromRequest(request))
}

func (h *Handler) requestIDParam(w http.ResponseWriter, r *http.Request) (id.RequestID, bool) {
	var requestID id.RequestID
	if err := requestID.UnmarshalText([]byte(chi.URLParam(r, "requestID"))); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "malformed request id"))
		return id.RequestID{}, false
	}
	return requestID, true
}

func (h *Handler) documentIDParam(w http.ResponseWriter, r *http.Request) (id.DocumentID, bool) {
	var documentID id.DocumentID
	if err := documentID.UnmarshalText([]byte(chi.URLParam(r, "documentID"))); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "malformed document id"))
		return id.DocumentID{}, false
	}
	return documentID, true
}

// codeConversionError attaches transport codes to engine errors, which reach
// the handler uncoded. The error text is preserved verbatim so the caller
// sees which nation and classification failed and what the valid options
// were.
func codeConversionError(err error) error {
	var (
		notFound     *conversion.SchemaNotFoundError
		expired      *conversion.SchemaExpiredError
		unknownClass *conversion.UnknownClassificationError
		unknownRef   *conversion.UnknownReferenceLevelError
	)
	switch {
	case errors.Is(err, conversion.ErrAtLeastOneTarget):
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, err.Error())
	case errors.As(err, &notFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, err.Error())
	case errors.As(err, &expired):
		return dErrors.Wrap(err, dErrors.CodeExpired, err.Error())
	case errors.As(err, &unknownClass), errors.As(err, &unknownRef):
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	default:
		return err
	}
}
