package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
	"github.com/noah-isme/sma-attendance-monitor/internal/service"
	"github.com/noah-isme/sma-attendance-monitor/pkg/response"
)

// ContextPrincipalKey is the gin context key storing the resolved principal.
const ContextPrincipalKey = "principal"

// Authorizer resolves an authenticated user into an access decision.
type Authorizer interface {
	Authorize(ctx context.Context, userID string) service.AccessDecision
}

// RequireAccess runs the guard for the authenticated caller and stores the principal.
func RequireAccess(guard Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ""
		if claims := ClaimsFromContext(c); claims != nil {
			userID = claims.UserID
		}

		decision := guard.Authorize(c.Request.Context(), userID)
		if !decision.Allowed() {
			if decision.Err != nil {
				_ = c.Error(decision.Err)
			}
			response.Error(c, decision.AsError())
			c.Abort()
			return
		}

		c.Set(ContextPrincipalKey, decision.Principal)
		c.Next()
	}
}

// PrincipalFromContext returns the principal stored by RequireAccess.
func PrincipalFromContext(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}
