// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"github.com/gin-gonic/gin"

	"inventrack/internal/core/security"
)

// RequireCapability aborts the request unless the authenticated account's
// role holds capability.
func RequireCapability(authz security.Authorizer, capability security.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := security.ActorFromContext(c.Request.Context())
		if err := authz.Authorize(actor, capability); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
