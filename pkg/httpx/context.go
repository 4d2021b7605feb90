package httpx

import (
	"context"

	"github.com/aussiebroadwan/guildhall/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID  ctxKey = "user_id" // token subject, string form
	CtxKeyClaims  ctxKey = "claims"  // *jwtx.Claims
	CtxKeyService ctxKey = "service" // true for service-token callers
)

// ClaimsFromContext returns the verified access token claims, if any.
func ClaimsFromContext(ctx context.Context) (*jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(*jwtx.Claims)
	return c, ok && c != nil
}

// IsServiceCaller reports whether the request authenticated with the
// service token.
func IsServiceCaller(ctx context.Context) bool {
	v, _ := ctx.Value(CtxKeyService).(bool)
	return v
}
