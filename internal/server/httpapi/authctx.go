package httpapi

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/service"
)

type ctxKey string

const claimsKey ctxKey = "sf.claims"

// WithClaims stores verified session claims in context.
func WithClaims(ctx context.Context, c *service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromCtx fetches verified session claims from context.
func ClaimsFromCtx(ctx context.Context) (*service.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*service.Claims)
	return c, ok
}

// UserIDFromCtx fetches the authenticated user ID from context.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	c, ok := ClaimsFromCtx(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.FromString(c.Subject)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
