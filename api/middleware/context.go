package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxIdentityID contextKey = "identity_id"
	ctxAccessID   contextKey = "access_id"
)

// IdentityIDFromContext returns the verified identity of the bearer token.
func IdentityIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(ctxIdentityID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// AccessIDFromContext returns the session id (jti) of the bearer token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

func withToken(ctx context.Context, identityID uuid.UUID, accessID string) context.Context {
	ctx = context.WithValue(ctx, ctxIdentityID, identityID)
	return context.WithValue(ctx, ctxAccessID, accessID)
}
