// Package handlers contains the HTTP handlers. Each handler is a
// closure over deps.Deps, returned by a constructor and bound to a
// route in the routes package.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

// respondJSON writes v as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps a domain error to its HTTP status and writes the
// JSON error body. Unknown error types map to 500 without leaking the
// message.
func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		if domainErr.Code == errors.CodeInternal || domainErr.Code == errors.CodeUnavailable {
			log.Error("request failed", logger.Error(err))
		}
		respondJSON(w, domainErr.Code.HTTPStatus(), errorResponse{
			Error: domainErr.Message,
			Code:  domainErr.Code,
		})
		return
	}

	log.Error("unhandled error", logger.Error(err))
	respondJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
		Code:  errors.CodeInternal,
	})
}

// decodeJSON parses the request body into v, limited to 1 MiB.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Validation("invalid request body: %v", err)
	}
	return nil
}
