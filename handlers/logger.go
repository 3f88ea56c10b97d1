package handlers

import (
	"salonify/middleware"
	"salonify/models"
	"salonify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request logger from the Gin context, falling back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(utils.CtxLogger); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// actor returns the signed-in caller, writing a 401 when there is none.
func actor(c *gin.Context) (models.Actor, bool) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		utils.RespondError(c, utils.Unauthorized(""))
	}
	return a, ok
}

// bindJSON binds the request body, writing a 422 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		getLogger(c).Debug("invalid request body", zap.Error(err))
		utils.RespondError(c, utils.BindingError(err))
		return false
	}
	return true
}
