package handler

// RESPONSE HELPERS:
// writeJSON and writeError standardise how every handler answers. All
// error responses share one shape:
//
//	{"error": "validation_error", "message": "informe um email válido"}
//
// so clients always know what fields to expect, whatever the status code.
// This is also the ONLY place domain errors become HTTP status codes —
// the services know nothing about HTTP.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/amferraz/blog-api/internal/apperror"
)

// ErrorResponse is the standard error body for all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable category
	Message string `json:"message"` // human-readable, safe for clients
}

// MessageResponse is the standard success body for write operations,
// e.g. {"message": "usuário criado com sucesso"}.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is the login success body: {"token": "<jwt>"}.
type TokenResponse struct {
	Token string `json:"token"`
}

// writeJSON sends a JSON response. Headers and status MUST be set before
// the first body write — that is why the order below never changes.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone out; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// errors.Is walks the wrap chain (service prefixes, AppError, sentinel),
// so a service error like
//
//	fmt.Errorf("service/auth: creating user: %w", apperror.Conflict(...))
//
// still lands on the 409 branch. Anything unrecognised — store failures
// included — collapses to a generic 500: no retry, and no internal detail
// (SQL text, file paths) ever reaches the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "erro interno no servidor",
	})
}
