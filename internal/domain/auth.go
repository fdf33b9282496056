package domain

import (
	"context"
	"time"
)

// Token purposes. An empty purpose denotes a general session token; named
// purposes scope a token to a single flow and are never accepted as sessions.
const (
	PurposeSession      = ""
	PurposeEmailConfirm = "email-confirm"
)

// IdentityClaims holds the verified payload of an identity token.
// Claims are immutable after issuance and carry no server-side state;
// validity is bounded solely by ExpiresAt.
type IdentityClaims struct {
	SubjectID uint
	Purpose   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer issues signed, time-bounded identity tokens.
type TokenIssuer interface {
	Issue(subjectID uint, purpose string, ttl time.Duration) (string, error)
}

// TokenVerifier verifies a token string and returns its claims. Failures are
// reported as the application token sentinel errors (missing, malformed,
// expired) so callers can branch with errors.Is.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*IdentityClaims, error)
}
