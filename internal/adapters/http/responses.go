package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/letterboxhq/letterbox-api/internal/application"
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

// ListResponse is the envelope for cache-aside list endpoints.
type ListResponse struct {
	Cache application.CacheOrigin `json:"cache"`
	Data  json.RawMessage         `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload) // Best effort
}

// decodeJSON parses the request body into dst, reporting a Validation error
// response on malformed payloads. It returns false when the request was
// already answered.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		domain.NewErrorResponse(domain.ErrValidation, "Invalid request payload", err.Error()).WriteJSON(w, http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses the {id} path segment. A non-numeric id behaves like a
// missing record.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		domain.NewErrorResponse(domain.ErrNotFoundCode, "Record not found", "").WriteJSON(w, http.StatusNotFound)
		return 0, false
	}
	return uint(id), true
}

// writeServiceError maps service sentinel errors onto the HTTP error
// taxonomy. Anything unrecognized is an internal error; details stay in the
// logs, not the response.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger domain.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		domain.NewErrorResponse(domain.ErrNotFoundCode, "Record not found", "").WriteJSON(w, http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		domain.NewErrorResponse(domain.ErrForbiddenCode, "Access denied", "You are not the author of this record.").WriteJSON(w, http.StatusForbidden)
	case errors.Is(err, domain.ErrDuplicateEmail):
		domain.NewErrorResponse(domain.ErrConflict, "Email already registered", "").WriteJSON(w, http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidCredentials):
		domain.NewErrorResponse(domain.ErrUnauthenticated, "Invalid email or password", "").WriteJSON(w, http.StatusUnauthorized)
	default:
		logger.Error(r.Context(), "Request failed with internal error", "path", r.URL.Path, "error", err.Error())
		domain.NewErrorResponse(domain.ErrInternal, "An unexpected error occurred", "").WriteJSON(w, http.StatusInternalServerError)
	}
}
