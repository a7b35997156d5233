package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/yucheng/tripledger/internal/identity"
	"github.com/yucheng/tripledger/pkg/response"
)

// Verifier validates a session token and returns the identity it carries.
type Verifier interface {
	Verify(token string) (identity.Identity, error)
}

// Auth extracts the Bearer token, verifies it, and puts the identity in the
// request context. Every persistence operation behind it fails fast with
// AUTH_REQUIRED when no identity is present.
func Auth(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.AuthRequired(w, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.AuthRequired(w, "Invalid authorization header format")
				return
			}

			id, err := verifier.Verify(parts[1])
			if err != nil {
				response.AuthRequired(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithContext(r.Context(), id)))
		})
	}
}

// GetIdentity extracts the session identity from the request context
func GetIdentity(ctx context.Context) (identity.Identity, bool) {
	return identity.FromContext(ctx)
}
