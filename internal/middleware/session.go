package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/opencampus/lms-api/internal/service"
	"github.com/opencampus/lms-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the resolved session.
const ContextSessionKey = "currentSession"

// LoginPath is where unauthenticated callers are redirected.
const LoginPath = "/login"

// Session protects routes by requiring a valid session cookie. Callers
// without one are redirected to the login page, matching the behaviour of
// the server-rendered flows this API backs.
func Session(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			response.Redirect(c, LoginPath)
			c.Abort()
			return
		}

		session, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Redirect(c, LoginPath)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}
