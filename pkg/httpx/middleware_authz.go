package httpx

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/guildhall/pkg/cryptox"
	"github.com/aussiebroadwan/guildhall/pkg/slogx"
)

// RequireServiceToken admits only callers presenting the shared service
// token as a bearer credential. Platform services use it to open and
// revoke sessions on behalf of users. An empty token disables the
// protected routes entirely.
func RequireServiceToken(token string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"error":             "temporarily_unavailable",
					"error_description": "service token is not configured",
				})
				return
			}

			got, ok := BearerToken(r)
			if !ok || !cryptox.EqualTokens(got, token) {
				slogx.FromContext(r.Context()).Warn("service token rejected")
				writeBearerError(w, "invalid service token")
				return
			}

			ctx := context.WithValue(r.Context(), CtxKeyService, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
