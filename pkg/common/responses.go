package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"

	pkgerrors "lists-ms/pkg/errors"
)

// DefaultMaxBodyBytes bounds request bodies accepted by DecodeJSON.
const DefaultMaxBodyBytes = 1 << 20

// RespondJSON sends a JSON response with the given status
func RespondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

// RespondCreated sends an empty 201. Mutations never echo the stored record.
func RespondCreated(w http.ResponseWriter, location string) {
	if location != "" {
		w.Header().Set("Location", location)
	}
	w.WriteHeader(http.StatusCreated)
}

// DecodeJSON parses a JSON request body with a size limit. Malformed,
// empty or trailing-data bodies come back as validation errors.
func DecodeJSON(r *http.Request, v interface{}, maxBytes int64) error {
	if r.Body == nil {
		return pkgerrors.NewValidationError("request body is required")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBytes))
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerrors.NewValidationError("request body is required")
		}
		return pkgerrors.NewValidationError("invalid JSON body").WithCause(err)
	}
	if err := decoder.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return pkgerrors.NewValidationError("request body must hold a single JSON value")
	}
	return nil
}
