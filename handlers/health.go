package handlers

import (
	"net/http"

	"salonify/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	// Status defaults to utils.GetHealthStatus.
	Status func() utils.HealthStatus
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{Status: utils.GetHealthStatus}
}

// HealthHandler reports the last dependency probe; 503 when any dependency is down.
func (h *HealthHandler) HealthHandler(c *gin.Context) {
	status := h.Status()
	code, msg := http.StatusOK, "Hi, I'm Salonify"
	if !status.Healthy() {
		code, msg = http.StatusServiceUnavailable, "Degraded"
	}
	c.JSON(code, utils.Envelope{Success: code == http.StatusOK, Message: msg, Data: status})
}
