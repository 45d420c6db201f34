package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded claim set of a verified bearer token. The scope list
// is trusted only as far as the signature: authorization decisions still run
// per route.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string   `json:"session_id"`
	TenantID  string   `json:"tenant_id,omitempty"`
	Scopes    []string `json:"scope"`
}

// Principal is the immutable caller identity threaded through the request
// context after verification. Handlers and middleware read it; nothing
// mutates it.
type Principal struct {
	Subject       string
	SessionID     string
	TokenTenantID string
	Scopes        []string
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the verified caller identity.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the verified caller identity, or a zero
// Principal when the request never passed authentication.
func PrincipalFromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey).(Principal)
	return p
}

// HasScope reports whether the principal holds the given permission string.
func (p Principal) HasScope(scope string) bool {
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
