// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"time"
)

// UserContext contains authenticated account information.
type UserContext struct {
	AccountID int64
	Email     string
	Role      string
	TokenID   string    // jti of the access token, used for revocation
	ExpiresAt time.Time // access token expiry
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetAccountID returns account ID from context or zero.
func GetAccountID(ctx context.Context) int64 {
	if u := GetUser(ctx); u != nil {
		return u.AccountID
	}
	return 0
}
