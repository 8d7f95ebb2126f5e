package security

import "context"

type apiKeyCtxKey struct{}

// WithAPIKey returns a copy of ctx carrying the authenticated API key.
func WithAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyCtxKey{}, key)
}

// APIKeyFromContext returns the API key set by WithAPIKey, or "".
func APIKeyFromContext(ctx context.Context) string {
	k, _ := ctx.Value(apiKeyCtxKey{}).(string)
	return k
}
