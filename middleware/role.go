package middleware

import (
	"slices"

	"salonify/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(utils.CtxRole)
		if role == "" {
			utils.RespondError(c, utils.Unauthorized(""))
			return
		}
		if !slices.Contains(roles, role) {
			utils.RespondError(c, utils.Forbidden(""))
			return
		}
		c.Next()
	}
}
