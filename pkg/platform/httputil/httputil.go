// Package httputil carries the JSON request/response helpers shared by all
// HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "crossclass/pkg/domain-errors"
)

// WriteJSON serializes v with the given status. Encoding failures at this
// point can only be logged by the caller; headers are already sent.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteError maps a coded domain error to an HTTP status and a stable error
// label. Internal errors never leak their description to the client.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, label := statusFor(code)

	body := errorBody{Error: label}
	if code != dErrors.CodeInternal {
		var dErr *dErrors.Error
		if errors.As(err, &dErr) {
			body.Description = dErr.Message
		} else {
			body.Description = err.Error()
		}
	}
	WriteJSON(w, status, body)
}

func statusFor(code dErrors.Code) (int, string) {
	switch code {
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest, "invalid_input"
	case dErrors.CodeValidation:
		return http.StatusBadRequest, "validation_failed"
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest, "bad_request"
	case dErrors.CodeNotFound:
		return http.StatusNotFound, "not_found"
	case dErrors.CodeConflict:
		return http.StatusConflict, "conflict"
	case dErrors.CodeExpired:
		return http.StatusGone, "expired"
	case dErrors.CodeInvariantViolation:
		return http.StatusUnprocessableEntity, "invariant_violation"
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case dErrors.CodeForbidden:
		return http.StatusForbidden, "forbidden"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// DecodeAndPrepare decodes the request body into T, rejecting malformed JSON
// with a 400 and logging the failure. The bool result reports whether the
// handler should proceed.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger,
	ctx context.Context, requestID string) (T, bool) {

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "malformed request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed JSON request body"))
		var zero T
		return zero, false
	}
	return req, true
}
