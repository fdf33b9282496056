package contextkeys

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for storing and retrieving a request ID.
	RequestIDKey contextKey = "request_id"

	// SubjectIDKey is the context key for the verified subject (user) id
	// extracted from a bearer token.
	SubjectIDKey contextKey = "subject_id"

	// ClaimsKey is the context key for storing the full verified IdentityClaims struct.
	ClaimsKey contextKey = "identity_claims"
)

// String makes contextKey satisfy fmt.Stringer to help with debugging/logging of keys themselves.
func (c contextKey) String() string {
	return string(c)
}
