package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/teamdesk-api/internal/errors"
)

// RequireManager only lets gestores through. It must run after RequireAuth.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, exists := GetSession(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		if !session.IsManager() {
			apierrors.Forbidden(c, "")
			return
		}

		c.Next()
	}
}
