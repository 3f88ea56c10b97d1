package middleware

import (
	"errors"
	"strings"

	"salonify/models"
	"salonify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken reads the token from the Authorization header, falling back to the session cookie.
func bearerToken(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil {
			return v
		}
	}
	return ""
}

// JWTAuthMiddleware requires a valid token that still has a live server-side session.
func JWTAuthMiddleware(sessions utils.SessionStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c, cookieName)
		if tokenString == "" {
			utils.RespondError(c, utils.Unauthorized(""))
			return
		}

		// Validate the token signature and expiration.
		claims, err := utils.ExtractClaims(tokenString)
		if err != nil {
			utils.RespondError(c, utils.Unauthorized(""))
			return
		}

		// The session is keyed by the token hash, so a logged-out token stops working at once.
		session, err := sessions.Get(c.Request.Context(), utils.HashToken(tokenString))
		if errors.Is(err, utils.ErrSessionNotFound) {
			utils.RespondError(c, utils.Unauthorized("Your session has expired. Please sign in again."))
			return
		}
		if err != nil {
			utils.RespondError(c, utils.Internal(err))
			return
		}
		if session.UserID != claims.UserID {
			utils.GetLogger().Warn("token and session disagree", zap.String("user_id", claims.UserID))
			utils.RespondError(c, utils.Unauthorized(""))
			return
		}

		c.Set(utils.CtxUserID, session.UserID)
		c.Set(utils.CtxRole, session.Role)
		c.Set(utils.CtxSession, session)
		c.Set(utils.CtxToken, tokenString)
		c.Next()
	}
}

// ActorFrom returns the authenticated caller set by JWTAuthMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	id := c.GetString(utils.CtxUserID)
	if id == "" {
		return models.Actor{}, false
	}
	return models.Actor{UserID: id, Role: c.GetString(utils.CtxRole)}, true
}
