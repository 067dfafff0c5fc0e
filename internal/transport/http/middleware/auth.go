package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mealhub/api/internal/domain"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier checks a session token and returns the embedded user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth returns middleware that gates protected routes. A request without a
// bearer credential, with a bad signature, or with an expired token is
// rejected before the downstream handler runs; on success the verified
// user id is attached to the request context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
				return
			}
			userID, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				msg := domain.ErrInvalidToken.Error()
				if errors.Is(err, domain.ErrTokenExpired) {
					msg = domain.ErrTokenExpired.Error()
				}
				writeJSONError(w, http.StatusUnauthorized, msg)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the verified user id placed by Auth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}
