package middleware

import (
	"Neighborly/internal/auth"
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const identityKey ctxKey = iota

// Verifier validates a bearer token and yields the caller's identity.
type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// and stores the identity in the request context.
func RequireAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "No token provided, authorization denied.")
				return
			}
			id, err := v.Verify(token)
			if err != nil {
				log.Debugw("auth: token rejected", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusUnauthorized, "Token is not valid.")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// GetIdentity returns the identity stored by RequireAuth.
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok && id.UserID != ""
}

// WithIdentity returns ctx carrying id.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
