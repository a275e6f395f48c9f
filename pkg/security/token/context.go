package token

import "context"

type claimsKey struct{}

// ContextWithClaims stores the claims of a validated bearer token.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims published by the identity middleware, or nil when
// the request carried no valid access token. The claims are not an authorization decision.
func ClaimsFromContext(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(claimsKey{}).(*Claims); ok {
		return claims
	}
	return nil
}
