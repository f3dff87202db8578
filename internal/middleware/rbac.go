package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/opencampus/lms-api/internal/models"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
	"github.com/opencampus/lms-api/pkg/response"
)

// RequireRoles enforces role-based access control for routes. It assumes the
// Session middleware already ran.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		sessionValue, exists := c.Get(ContextSessionKey)
		if !exists {
			response.Redirect(c, LoginPath)
			c.Abort()
			return
		}
		session := sessionValue.(*models.Session)

		if _, ok := allowed[session.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
