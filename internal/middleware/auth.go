package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ingenium21/todo-service/internal/auth"
	"github.com/ingenium21/todo-service/internal/http/respond"
)

type contextKey struct{}

var identityKey contextKey

// ErrNoToken indicates the request carried no token at all.
var ErrNoToken = errors.New("not authenticated")

// Authenticator resolves request tokens into identities. It is the single
// gate in front of every protected route.
type Authenticator struct {
	tokens *auth.TokenManager
}

// NewAuthenticator wraps a token manager.
func NewAuthenticator(tokens *auth.TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Resolve extracts a token from the Authorization header or the
// access_token cookie and validates it. The two-outcome result lets a
// page-rendering caller choose a redirect; API routes use Require instead
// and surface failures as 401.
func (a *Authenticator) Resolve(r *http.Request) (auth.Identity, error) {
	token := extractToken(r)
	if token == "" {
		return auth.Identity{}, ErrNoToken
	}
	return a.tokens.Validate(token)
}

// Require rejects the request with 401 unless a valid token is presented,
// then stores the resolved identity in the request context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.Resolve(r)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// WithIdentity stores an identity in the context.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom retrieves the identity placed by Require.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
