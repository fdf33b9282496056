package domain

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Sentinel errors raised by services for authorization and rate-limit outcomes.
var (
	ErrForbidden          = errors.New("subject does not own this record")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ErrorCode represents a specific error condition.
type ErrorCode string

const (
	ErrValidation       ErrorCode = "Validation"       // HTTP 400
	ErrUnauthenticated  ErrorCode = "Unauthenticated"  // HTTP 401
	ErrForbiddenCode    ErrorCode = "Forbidden"        // HTTP 403
	ErrNotFoundCode     ErrorCode = "NotFound"         // HTTP 404
	ErrConflict         ErrorCode = "Conflict"         // HTTP 409
	ErrRateLimited      ErrorCode = "RateLimited"      // HTTP 429
	ErrMethodNotAllowed ErrorCode = "MethodNotAllowed" // HTTP 405
	ErrInternal         ErrorCode = "InternalServerError"
)

// ErrorResponse is the standard error format returned to clients as JSON.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"error"`
	Details string    `json:"details,omitempty"`
	// RetryAfter is populated only for RateLimited responses and holds the
	// remaining cooldown in whole seconds.
	RetryAfter int `json:"retryAfter,omitempty"`
}

// NewErrorResponse creates a new ErrorResponse struct.
func NewErrorResponse(code ErrorCode, message string, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// WriteJSON sends an ErrorResponse as JSON with the given HTTP status code.
func (er ErrorResponse) WriteJSON(w http.ResponseWriter, httpStatusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	json.NewEncoder(w).Encode(er) // Best effort, error from Encode is not typically handled here.
}
