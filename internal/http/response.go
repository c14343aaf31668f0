package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

// Every endpoint answers with the same discriminated envelope. Clients
// branch on Success; the HTTP status mirrors the error kind as a
// convenience.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeUnauthorized      = "UNAUTHORIZED"
	codeNotFound          = "NOT_FOUND"
	codeValidationFailure = "VALIDATION_FAILURE"
	codeStorageFailure    = "STORAGE_FAILURE"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(r *http.Request, w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, envelope{
		Success: false,
		Error:   &errorBody{Code: code, Message: err.Error()},
	})
}

// writeValidationError reports a request that never reached the ledger:
// malformed body, bad amount string, unparsable filter.
func writeValidationError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, envelope{
		Success: false,
		Error:   &errorBody{Code: codeValidationFailure, Message: msg},
	})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized, codeUnauthorized
	case errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrTransactionNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrDescriptionTooLong):
		return http.StatusUnprocessableEntity, codeValidationFailure
	default:
		return http.StatusInternalServerError, codeStorageFailure
	}
}
