// Package httputil centralizes JSON response writing so every handler emits
// the same envelopes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "skibazar/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into its HTTP status and the JSON
// error envelope. Internal errors omit the description so storage details
// never leak to callers. Non-domain errors are reported as internal.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := ""
	var fields map[string]string

	var de *dErrors.Error
	if errors.As(err, &de) {
		code = de.Code
		message = de.Message
		fields = de.Fields
	}

	body := map[string]any{"error": string(code)}
	if code != dErrors.CodeInternal && message != "" {
		body["error_description"] = message
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
