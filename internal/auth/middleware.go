package auth

import (
	"net/http"

	"github.com/vaultline/vaultline/common/httputil"
	"github.com/vaultline/vaultline/common/logging"
)

// Middleware resolves the bearer token into a principal and stores it in the
// request context. Requests without a valid token pass through without one;
// each handler decides whether missing auth is an error (the feed) or a
// degrade-to-empty (cards). Rejected tokens are logged with the client IP.
func Middleware(v *Verifier, logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := httputil.BearerToken(r); token != "" {
				p, err := v.Verify(token)
				if err == nil {
					r = r.WithContext(WithPrincipal(r.Context(), p))
				} else {
					logger.WarnContext(r.Context(), "bearer token rejected",
						logging.IP(httputil.GetClientIP(r)), logging.Error(err))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
