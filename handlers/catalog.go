package handlers

import (
	"salonify/models"
	"salonify/services/catalog"
	"salonify/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes branches, services and stylists.
type CatalogHandler struct {
	Catalog catalog.CatalogService
}

func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: svc}
}

func (h *CatalogHandler) ListBranchesHandler(c *gin.Context) {
	page := utils.ParsePage(c)
	items, total, err := h.Catalog.ListBranches(c.Request.Context(), page.Skip(), page.PerPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Paginated(c, "OK", items, len(items), total, page)
}

func (h *CatalogHandler) GetBranchHandler(c *gin.Context) {
	b, err := h.Catalog.GetBranch(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "OK", b)
}

func (h *CatalogHandler) CreateBranchHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req catalog.BranchRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Catalog.CreateBranch(c.Request.Context(), a, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Branch created", b)
}

func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	page := utils.ParsePage(c)
	items, total, err := h.Catalog.ListServices(c.Request.Context(), page.Skip(), page.PerPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Paginated(c, "OK", items, len(items), total, page)
}

func (h *CatalogHandler) GetServiceHandler(c *gin.Context) {
	s, err := h.Catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "OK", s)
}

func (h *CatalogHandler) CreateServiceHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req catalog.ServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Catalog.CreateService(c.Request.Context(), a, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Service created", s)
}

// ListStylistsHandler accepts optional branch_id and service_id filters.
func (h *CatalogHandler) ListStylistsHandler(c *gin.Context) {
	page := utils.ParsePage(c)
	filter := models.StylistFilter{BranchID: c.Query("branch_id"), ServiceID: c.Query("service_id")}
	items, total, err := h.Catalog.ListStylists(c.Request.Context(), filter, page.Skip(), page.PerPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Paginated(c, "OK", items, len(items), total, page)
}

func (h *CatalogHandler) GetStylistHandler(c *gin.Context) {
	s, err := h.Catalog.GetStylist(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "OK", s)
}

func (h *CatalogHandler) CreateStylistHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req catalog.StylistRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Catalog.CreateStylist(c.Request.Context(), a, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Stylist created", s)
}
