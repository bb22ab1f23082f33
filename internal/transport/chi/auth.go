package chi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/podiumlabs/podium/internal/domain"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// Verifier resolves the principal behind an authorization header.
type Verifier interface {
	GetUser(ctx context.Context, authHeader string) (domain.Principal, error)
}

type principalKey struct{}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// AuthMiddleware returns a middleware that verifies the caller's bearer
// credential against the identity service on every request.
func AuthMiddleware(verifier Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, domain.ErrMissingAuthHeader.Error())
				return
			}

			principal, err := verifier.GetUser(r.Context(), auth)
			if err != nil {
				logger.Warn("identity verification failed", zap.Error(err))
				writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
