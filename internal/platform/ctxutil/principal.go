package ctxutil

import (
	"context"

	"github.com/yungbote/mentor-backend/internal/domain"
)

type principalKey struct{}

// WithPrincipal attaches the authenticated caller to ctx.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal returns the authenticated caller, or nil for anonymous requests.
func GetPrincipal(ctx context.Context) *domain.Principal {
	if p, ok := ctx.Value(principalKey{}).(*domain.Principal); ok {
		return p
	}
	return nil
}
