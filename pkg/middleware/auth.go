package middleware

import (
	"net/http"
	"strings"

	"github.com/hadfield/catalog/pkg/auth"
	"github.com/hadfield/catalog/pkg/contextkeys"
	"github.com/hadfield/catalog/pkg/httputil"
	"github.com/hadfield/catalog/pkg/observability"
)

// TokenVerifier verifies a bearer token string and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware provides bearer-token authentication
type AuthMiddleware struct {
	verifier TokenVerifier
	metrics  *observability.Metrics // optional
}

// NewAuthMiddleware creates a new authentication middleware. metrics
// may be nil.
func NewAuthMiddleware(verifier TokenVerifier, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		metrics:  metrics,
	}
}

// Handler wraps an HTTP handler with authentication. On success the
// verified claims are attached to the request context; the user record
// is not re-fetched from the store.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Expect "Authorization: Bearer <token>"
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.countFailure("missing")
			httputil.WriteUnauthorized(w, "unauthorized, token missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.countFailure("missing")
			httputil.WriteUnauthorized(w, "unauthorized, token missing")
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			// Malformed, expired and bad-signature tokens are
			// distinguishable internally but surface identically.
			m.countFailure("invalid")
			httputil.WriteForbidden(w, auth.ErrInvalidToken.Error())
			return
		}

		ctx := contextkeys.WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose verified claims lack the admin
// flag. It must run after Handler; the check short-circuits before any
// store access.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r)
		if claims == nil {
			m.countFailure("missing")
			httputil.WriteUnauthorized(w, "unauthorized, token missing")
			return
		}
		if !claims.IsAdmin {
			m.countFailure("forbidden")
			httputil.WriteForbidden(w, "access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) countFailure(reason string) {
	if m.metrics != nil {
		m.metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	}
}

// GetClaims extracts verified claims from the request context.
func GetClaims(r *http.Request) *auth.Claims {
	value := r.Context().Value(contextkeys.ClaimsKey)
	if value == nil {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
