package httpx

import (
	"context"
	"time"
)

// Principal is the caller identity resolved from a valid, unrevoked access
// token. It only ever lives in the request context.
type Principal struct {
	Subject   string
	TokenID   string
	Token     string
	ExpiresAt time.Time
}

type ctxKey struct{}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok && p.Subject != ""
}
