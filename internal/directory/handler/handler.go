package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crossclass/internal/directory/models"
	id "crossclass/pkg/domain"
	dErrors "crossclass/pkg/domain-errors"
	"crossclass/pkg/platform/httputil"
	"crossclass/pkg/requestcontext"
)

// Service defines the interface for directory operations.
type Service interface {
	CreateNation(ctx context.Context, rawCode, name string) (*models.Nation, error)
	CreateAuthority(ctx context.Context, nationID id.NationID, name, email, phone string, expiresAt *time.Time) (*models.Authority, error)
	GetNationByCode(ctx context.Context, rawCode string) (*models.Nation, error)
	ListNations(ctx context.Context) ([]*models.Nation, error)
	ListAuthorities(ctx context.Context, nationID id.NationID) ([]*models.Authority, error)
}

// Handler wires directory endpoints to the directory service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts directory endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/nations", h.HandleCreateNation)
	r.Get("/nations", h.HandleListNations)
	r.Get("/nations/{code}", h.HandleGetNation)
	r.Post("/nations/{nationID}/authorities", h.HandleCreateAuthority)
	r.Get("/nations/{nationID}/authorities", h.HandleListAuthorities)
}

type createNationRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type createAuthorityRequest struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (h *Handler) HandleCreateNation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[createNationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	nation, err := h.service.CreateNation(ctx, req.Code, req.Name)
	if err != nil {
		h.logger.ErrorContext(ctx, "nation creation failed",
			"request_id", requestID,
			"code", req.Code,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "nation created",
		"request_id", requestID,
		"nation_id", nation.ID,
		"code", nation.Code,
	)
	httputil.WriteJSON(w, http.StatusCreated, nation)
}

func (h *Handler) HandleListNations(w http.ResponseWriter, r *http.Request) {
	nations, err := h.service.ListNations(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nations)
}

func (h *Handler) HandleGetNation(w http.ResponseWriter, r *http.Request) {
	nation, err := h.service.GetNationByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nation)
}

func (h *Handler) HandleCreateAuthority(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var nationID id.NationID
	if err := nationID.UnmarshalText([]byte(chi.URLParam(r, "nationID"))); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "malformed nation id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[createAuthorityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	authority, err := h.service.CreateAuthority(ctx, nationID, req.Name, req.Email, req.Phone, req.ExpiresAt)
	if err != nil {
		h.logger.ErrorContext(ctx, "authority creation failed",
			"request_id", requestID,
			"nation_id", nationID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, authority)
}

func (h *Handler) HandleListAuthorities(w http.ResponseWriter, r *http.Request) {
	var nationID id.NationID
	if err := nationID.UnmarshalText([]byte(chi.URLParam(r, "nationID"))); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "malformed nation id"))
		return
	}
	authorities, err := h.service.ListAuthorities(r.Context(), nationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, authorities)
}
