package handlers

import (
	"salonify/services/audit"
	"salonify/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler encapsulates admin-only reads.
type AdminHandler struct {
	Audit audit.Recorder
}

func NewAdminHandler(recorder audit.Recorder) *AdminHandler {
	return &AdminHandler{Audit: recorder}
}

// AuditLogHandler lists audit entries newest first, optionally filtered by ?entity=.
func (h *AdminHandler) AuditLogHandler(c *gin.Context) {
	page := utils.ParsePage(c)
	entries, total, err := h.Audit.List(c.Request.Context(), c.Query("entity"), page.Skip(), page.PerPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Paginated(c, "OK", entries, len(entries), total, page)
}
