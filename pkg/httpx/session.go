package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/orgauth/pkg/slogx"
)

// SessionResolver verifies a session token and returns the email it is bound to.
type SessionResolver interface {
	ResolveIdentity(ctx context.Context, token string) (string, error)
}

// SessionMiddleware requires an "Authorization: Bearer" session token. The
// token is verified up front and both the raw token and its email are placed
// in the request context for downstream handlers.
func SessionMiddleware(resolver SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			email, err := resolver.ResolveIdentity(ctx, raw)
			if err != nil {
				log.Warn("session token rejected", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, raw, email)))
		})
	}
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(authz[len("Bearer "):])
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteFailure(w, http.StatusUnauthorized, "INVALID_TOKEN", desc)
}
