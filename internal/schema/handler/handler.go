package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crossclass/internal/schema/models"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/httputil"
	"crossclass/pkg/requestcontext"
)

// Service defines the interface for schema registry operations.
type Service interface {
	RegisterVersion(ctx context.Context, rawCode string, mappings models.Mappings,
		caveats, version string, authorityID id.AuthorityID, expiresAt *time.Time) (*models.ClassificationSchema, error)
	Latest(ctx context.Context, rawCode string) (*models.ClassificationSchema, error)
	LatestValid(ctx context.Context, rawCode string) (*models.ClassificationSchema, error)
	Version(ctx context.Context, rawCode, version string) (*models.ClassificationSchema, error)
	History(ctx context.Context, rawCode string) ([]*models.ClassificationSchema, error)
}

// Handler wires schema registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts schema registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/schemas", h.HandleRegisterVersion)
	r.Get("/schemas/{code}", h.HandleLatest)
	r.Get("/schemas/{code}/valid", h.HandleLatestValid)
	r.Get("/schemas/{code}/history", h.HandleHistory)
	r.Get("/schemas/{code}/versions/{version}", h.HandleVersion)
}

// HandleRegisterVersion handles POST /schemas requests.
func (h *Handler) HandleRegisterVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[registerVersionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	schema, err := h.service.RegisterVersion(ctx, req.NationCode, req.toMappings(),
		req.Caveats, req.Version, req.AuthorityID, req.ExpiresAt)
	if err != nil {
		h.logger.ErrorContext(ctx, "schema version registration failed",
			"request_id", requestID,
			"nation_code", req.NationCode,
			"version", req.Version,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "schema version registered",
		"request_id", requestID,
		"schema_id", schema.ID,
		"nation_code", schema.NationCode,
		"version", schema.Version,
	)
	httputil.WriteJSON(w, http.StatusCreated, schema)
}

// HandleLatest returns the newest version regardless of expiry.
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	schema, err := h.service.Latest(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, schema)
}

// HandleLatestValid returns the newest version, rejecting it when expired.
func (h *Handler) HandleLatestValid(w http.ResponseWriter, r *http.Request) {
	schema, err := h.service.LatestValid(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, schema)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	versions, err := h.service.History(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, versions)
}

func (h *Handler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	schema, err := h.service.Version(r.Context(),
		chi.URLParam(r, "code"), chi.URLParam(r, "version"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, schema)
}
