package auth

import (
	"net/http"

	"github.com/ghuser/jobdesk/pkg/httpx"
	"github.com/ghuser/jobdesk/pkg/logger"
)

// RequireAuth is a chi middleware that enforces bearer-token authentication.
// It extracts the Authorization header, verifies the token, and injects the
// caller Identity into the request context. Returns 401 Unauthorized before
// any entity logic runs when the credential is missing or invalid.
//
// After this middleware, handlers can safely call auth.IdentityFromCtx(r.Context()).
func RequireAuth(v *Verifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			id, err := v.Verify(r.Context(), token)
			if err != nil {
				log.WarnContext(r.Context(), "token verification failed", "error", err)
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
