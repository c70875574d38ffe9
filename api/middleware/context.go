package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/jirasak-dev/stockledger/pkg/auth"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxClaims contextKey = "claims"
)

// ActingUserFromContext returns the authenticated user's id, as placed
// there by the Auth middleware.
func ActingUserFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok && v != uuid.Nil {
		return v, true
	}
	return uuid.Nil, false
}

// ClaimsFromContext returns the verified claim bag for the request.
func ClaimsFromContext(ctx context.Context) auth.ClaimSet {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxClaims).(auth.ClaimSet); ok {
		return v
	}
	return nil
}

// WithActingUser injects the acting user and their claims into the context.
func WithActingUser(ctx context.Context, userID uuid.UUID, claims auth.ClaimSet) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxClaims, claims)
}
