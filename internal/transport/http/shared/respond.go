// Package shared centralizes JSON responses and domain error translation so
// every handler produces the same envelopes.
package shared

import (
	"encoding/json"
	"net/http"

	domainerrors "rcvault/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope with the
// mapped HTTP status. Uncoded errors map to 500 with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	WriteJSON(w, domainerrors.ToHTTPStatus(code), ErrorResponse{
		Error:   string(code),
		Message: domainerrors.MessageOf(err),
	})
}
