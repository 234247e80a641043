// Package httpx writes the JSON envelopes every handler shares: plain
// payloads, the uniform error envelope, and validation issue lists.
package httpx

import (
	"encoding/json"
	"net/http"

	"invoicely/internal/validation"
)

// ErrorResponse is the uniform error envelope. Details carries the
// validation issue list on a failed submit, or plain strings for a bad
// filter query; it is omitted otherwise.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes payload with the given status. The payload is marshaled
// before the ResponseWriter is touched, so an encoding failure never
// leaves a half-written body behind a 200.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// JSONError writes the error envelope with a machine-readable code.
func JSONError(w http.ResponseWriter, status int, code string, details any) {
	JSON(w, status, ErrorResponse{Error: code, Details: details})
}

// JSONValidation writes the 400 envelope for a rejected document, with
// the full issue list so the client can mark every field at once.
func JSONValidation(w http.ResponseWriter, issues []validation.Issue) {
	JSONError(w, http.StatusBadRequest, "validation_failed", issues)
}
