package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/andviana23/trato-sub001/internal/infrastructure/auth"
)

// ContextKey is the type for context keys.
type ContextKey string

// PrincipalContextKey is the context key for the authenticated caller.
const PrincipalContextKey ContextKey = "principal"

// Principal is the authenticated caller extracted from a verified token.
type Principal struct {
	Subject string
	Role    string
}

// Auth verifies the Bearer token on every request and stores the caller in
// the request context.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			principal := &Principal{
				Subject: claims.Subject,
				Role:    claims.Role,
			}

			ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated caller from context.
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(PrincipalContextKey).(*Principal)
	return principal, ok
}
