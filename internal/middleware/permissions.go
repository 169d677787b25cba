package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
	appErrors "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/errors"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/response"
)

// RequirePermission gates a route on a single permission. Unauthenticated
// requests and requests from callers whose role does not grant the
// permission are rejected without invoking the handler.
func RequirePermission(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !caller.HasPermission(perm) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAnyPermission gates a route on at least one of the named
// permissions.
func RequireAnyPermission(perms ...models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !caller.HasAnyPermission(perms...) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
