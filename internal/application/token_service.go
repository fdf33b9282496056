package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/letterboxhq/letterbox-api/internal/adapters/config"
	"github.com/letterboxhq/letterbox-api/internal/domain"
)

var (
	ErrTokenMissing   = errors.New("no token supplied")
	ErrTokenMalformed = errors.New("token is malformed or its signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")
)

// Default validity windows, overridable via auth config.
const (
	defaultSessionTokenTTL = 7 * 24 * time.Hour
	defaultConfirmTokenTTL = time.Hour
)

// identityClaims is the wire shape of a token payload: the registered claim
// set plus the single-purpose marker.
type identityClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose,omitempty"`
}

// TokenService issues and verifies signed, time-bounded identity tokens.
// Tokens are stateless HMAC-SHA256 JWTs: nothing is stored at issuance and
// revocation is out of scope, so a token is trusted until its expiry.
type TokenService struct {
	logger domain.Logger
	config config.Provider
}

var (
	_ domain.TokenIssuer   = (*TokenService)(nil)
	_ domain.TokenVerifier = (*TokenService)(nil)
)

// NewTokenService creates a new TokenService.
func NewTokenService(logger domain.Logger, cfgProvider config.Provider) *TokenService {
	if logger == nil {
		panic("logger is nil in NewTokenService")
	}
	if cfgProvider == nil {
		panic("config provider is nil in NewTokenService")
	}
	return &TokenService{logger: logger, config: cfgProvider}
}

// Issue produces an opaque signed token encoding {subject, purpose, iat, exp}.
func (s *TokenService) Issue(subjectID uint, purpose string, ttl time.Duration) (string, error) {
	secret := s.config.Get().Auth.JWTSecret
	if secret == "" {
		return "", errors.New("application not configured for token signing")
	}

	now := time.Now()
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(subjectID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign identity token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and validity window of a token and returns its
// claims. Any payload altered after signing fails signature verification and
// is reported as ErrTokenMalformed.
func (s *TokenService) Verify(ctx context.Context, tokenString string) (*domain.IdentityClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	secret := s.config.Get().Auth.JWTSecret
	if secret == "" {
		return nil, errors.New("application not configured for token verification")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &identityClaims{},
		func(t *jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug(ctx, "Token verification failed: expired")
			return nil, ErrTokenExpired
		}
		s.logger.Debug(ctx, "Token verification failed", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := parsed.Claims.(*identityClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	subjectID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: non-numeric subject", ErrTokenMalformed)
	}

	out := &domain.IdentityClaims{
		SubjectID: uint(subjectID),
		Purpose:   claims.Purpose,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// SessionTokenTTL returns the configured session validity window (default 7 days).
func (s *TokenService) SessionTokenTTL() time.Duration {
	if secs := s.config.Get().Auth.SessionTokenTTLSeconds; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultSessionTokenTTL
}

// ConfirmTokenTTL returns the configured email-confirmation validity window (default 1 hour).
func (s *TokenService) ConfirmTokenTTL() time.Duration {
	if secs := s.config.Get().Auth.ConfirmTokenTTLSeconds; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultConfirmTokenTTL
}
