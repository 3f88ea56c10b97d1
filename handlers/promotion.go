package handlers

import (
	"salonify/services/promotion"
	"salonify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PromotionHandler struct {
	Promotions promotion.PromotionService
}

func NewPromotionHandler(svc promotion.PromotionService) *PromotionHandler {
	return &PromotionHandler{Promotions: svc}
}

// ValidateHandler answers 200 for every well-formed request; a rejected code carries valid=false.
func (h *PromotionHandler) ValidateHandler(c *gin.Context) {
	var req promotion.ValidateRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Promotions.Validate(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !res.Valid {
		getLogger(c).Debug("Promotion rejected", zap.String("code", req.Code), zap.String("reason", res.Message))
	}
	utils.Success(c, "Promotion checked", res)
}

func (h *PromotionHandler) CreateHandler(c *gin.Context) {
	var req promotion.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Promotions.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Promotion created", zap.String("code", p.Code))
	utils.Created(c, "Promotion created", p)
}

func (h *PromotionHandler) ListHandler(c *gin.Context) {
	page := utils.ParsePage(c)
	items, total, err := h.Promotions.List(c.Request.Context(), page.Skip(), page.PerPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Paginated(c, "OK", items, len(items), total, page)
}
