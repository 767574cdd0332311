package auth

import "context"

type ctxKeyPrincipal struct{}
type ctxKeyToken struct{}

// ContextWithPrincipal returns a context carrying the resolved principal.
// Handlers read it back with PrincipalFromContext instead of re-parsing
// the token.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal{}, &p)
}

// PrincipalFromContext reports the principal attached by the
// authentication middleware, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxKeyPrincipal{}).(*Principal)
	if !ok || p == nil {
		return Principal{}, false
	}
	return *p, true
}

// ContextWithToken keeps the raw bearer token alongside the principal.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyToken{}, token)
}

// TokenFromContext returns the raw bearer token when one was attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	tok, ok := ctx.Value(ctxKeyToken{}).(string)
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}
