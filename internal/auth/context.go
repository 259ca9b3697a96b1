package auth

import (
	"context"

	"github.com/google/uuid"
)

type (
	clientIPKey   struct{}
	oauthStateKey struct{}
)

// WithClientIP stores the visitor's address for collaborators that forward it to the
// identity provider.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// NewOAuthState returns a fresh state value for an authorization request.
func NewOAuthState() string {
	return uuid.NewString()
}

// WithOAuthState fixes the state Providers.Initiate puts in the authorization URL, so
// the caller can keep it for the callback.
func WithOAuthState(ctx context.Context, state string) context.Context {
	return context.WithValue(ctx, oauthStateKey{}, state)
}

func OAuthState(ctx context.Context) string {
	state, _ := ctx.Value(oauthStateKey{}).(string)
	return state
}
