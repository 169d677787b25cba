package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/service"
	appErrors "github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/errors"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/pkg/response"
)

// ContextCallerKey is the gin context key storing the resolved caller.
const ContextCallerKey = "currentCaller"

// JWT protects routes by requiring a valid access token. On success the
// caller context, with the role's permission grants resolved, is stored on
// the request context for the permission gate and handlers.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextCallerKey, models.NewCallerContext(claims.UserID, claims.Role))
		c.Next()
	}
}

// CallerFrom returns the caller context stored by JWT, if any.
func CallerFrom(c *gin.Context) (models.CallerContext, bool) {
	value, exists := c.Get(ContextCallerKey)
	if !exists {
		return models.CallerContext{}, false
	}
	caller, ok := value.(models.CallerContext)
	return caller, ok
}
