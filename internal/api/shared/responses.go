// Package shared holds the response envelope and context helpers used by
// every API handler.
package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/joel-arnold/accounts-api/internal/redact"
)

// Envelope is the uniform response body: {success, data?, error?,
// message?, total?}. Total is set automatically for list payloads.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Total   *int   `json:"total,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes v as a JSON response with the given status code.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a success envelope with the given payload.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	RespondWithJSON(w, r, status, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// RespondWithList writes a success envelope for a list payload and fills in
// the total count.
func RespondWithList[T any](w http.ResponseWriter, r *http.Request, status int, items []T, message string) {
	total := len(items)
	RespondWithJSON(w, r, status, Envelope{
		Success: true,
		Data:    items,
		Message: message,
		Total:   &total,
	})
}

// RespondWithError writes a failure envelope carrying only the safe,
// caller-facing message plus the request's trace ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, Envelope{
		Success: false,
		Error:   message,
		TraceID: traceID,
	})
}

// RespondWithErrorAndLog writes a failure envelope with the safe message
// and logs the underlying error in redacted form. 5xx responses are logged
// at ERROR level, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	attrs := []any{
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method,
		"status_code", status,
		"user_message", userMessage,
	}
	if err != nil {
		attrs = append(attrs, "error", redact.Error(err))
	}

	if status >= http.StatusInternalServerError {
		slog.Error("API error response", attrs...)
	} else {
		slog.Debug("API error response", attrs...)
	}

	RespondWithJSON(w, r, status, Envelope{
		Success: false,
		Error:   userMessage,
		TraceID: traceID,
	})
}
