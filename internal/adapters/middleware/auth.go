package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/letterboxhq/letterbox-api/internal/application"
	"github.com/letterboxhq/letterbox-api/internal/domain"
	"github.com/letterboxhq/letterbox-api/pkg/contextkeys"
)

const authorizationHeader = "Authorization"

// BearerAuthMiddleware creates a middleware verifying the Authorization
// bearer token and injecting the verified subject into the request context.
// Protected handlers read the subject from the context value, never from any
// shared mutable state. Single-purpose tokens are not sessions and are
// rejected here.
func BearerAuthMiddleware(verifier domain.TokenVerifier, logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Warn(r.Context(), "Bearer token verification failed", "path", r.URL.Path, "error", err.Error())

				var errMsg string
				switch {
				case errors.Is(err, application.ErrTokenMissing):
					errMsg = "Authorization token is required"
				case errors.Is(err, application.ErrTokenExpired):
					errMsg = "Token has expired"
				case errors.Is(err, application.ErrTokenMalformed):
					errMsg = "Token is invalid"
				default:
					domain.NewErrorResponse(domain.ErrInternal, "An unexpected error occurred", "Internal server error.").WriteJSON(w, http.StatusInternalServerError)
					return
				}
				domain.NewErrorResponse(domain.ErrUnauthenticated, errMsg, "Provide a valid bearer token in the Authorization header.").WriteJSON(w, http.StatusUnauthorized)
				return
			}

			if claims.Purpose != domain.PurposeSession {
				logger.Warn(r.Context(), "Single-purpose token presented as session", "path", r.URL.Path, "purpose", claims.Purpose)
				domain.NewErrorResponse(domain.ErrUnauthenticated, "Token is invalid", "This token cannot be used for session authentication.").WriteJSON(w, http.StatusUnauthorized)
				return
			}

			newReqCtx := context.WithValue(r.Context(), contextkeys.ClaimsKey, claims)
			newReqCtx = context.WithValue(newReqCtx, contextkeys.SubjectIDKey, claims.SubjectID)

			logger.Debug(r.Context(), "Bearer token authentication successful", "path", r.URL.Path, "subject_id", claims.SubjectID)
			next.ServeHTTP(w, r.WithContext(newReqCtx))
		})
	}
}

// SubjectID extracts the verified subject id injected by BearerAuthMiddleware.
func SubjectID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(contextkeys.SubjectIDKey).(uint)
	return id, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(authorizationHeader)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
