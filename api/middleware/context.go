package middleware

import (
	"context"

	pkgauth "github.com/jeevaraksha/hospital-api/pkg/auth"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// WithIdentity stores the caller's identity in the context by value. The
// stored identity is never mutated after this point; downstream code gets a
// copy and cannot affect other readers.
func WithIdentity(ctx context.Context, id pkgauth.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// IdentityFromContext returns the caller's identity, or the zero (anonymous)
// identity when the authenticator never ran or found no token.
func IdentityFromContext(ctx context.Context) pkgauth.Identity {
	if ctx == nil {
		return pkgauth.Identity{}
	}
	if id, ok := ctx.Value(ctxIdentity).(pkgauth.Identity); ok {
		return id
	}
	return pkgauth.Identity{}
}
