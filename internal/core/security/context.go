package security

import (
	"context"

	appctx "inventrack/internal/core/context"
)

// Actor is the authenticated caller of a domain operation.
type Actor struct {
	AccountID int64
	Role      Role
}

// IsAnonymous reports whether the actor carries no identity.
func (a Actor) IsAnonymous() bool {
	return a.AccountID <= 0 || !a.Role.Valid()
}

// IsAdmin is a shorthand used by ownership checks.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ActorFromContext builds the Actor from the authenticated user in ctx.
// Returns an anonymous actor when the request is not authenticated.
func ActorFromContext(ctx context.Context) Actor {
	u := appctx.GetUser(ctx)
	if u == nil {
		return Actor{}
	}
	return Actor{AccountID: u.AccountID, Role: Role(u.Role)}
}
