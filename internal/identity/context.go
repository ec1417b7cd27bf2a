package identity

import "context"

type claimsKey struct{}

// ContextKeyClaims is exported for tests that build contexts directly.
var ContextKeyClaims = claimsKey{}

// WithClaims injects validated claims into the context. Set by the auth
// middleware once per request.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

// FromContext retrieves the validated claims. The second return is false for
// unauthenticated requests; callers must treat that as "no principal".
func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(Claims)
	return claims, ok
}
