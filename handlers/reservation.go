package handlers

import (
	"salonify/models"
	"salonify/services/reservation"
	"salonify/utils"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	Reservations reservation.ReservationService
}

func NewReservationHandler(svc reservation.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: svc}
}

func (h *ReservationHandler) CreateHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req reservation.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Reservations.Create(c.Request.Context(), a, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Reservation created", r)
}

// ListHandler accepts an optional status filter.
func (h *ReservationHandler) ListHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	status := models.ReservationStatus(c.Query("status"))
	switch status {
	case "", models.ReservationPending, models.ReservationConfirmed, models.ReservationCancelled:
	default:
		utils.RespondError(c, utils.ValidationError("", map[string][]string{
			"status": {"The selected status is invalid."},
		}))
		return
	}
	page := utils.ParsePage(c)
	items, total, err := h.Reservations.List(c.Request.Context(), a, status, page.Skip(), page.PerPage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Paginated(c, "OK", items, len(items), total, page)
}

func (h *ReservationHandler) GetHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	r, err := h.Reservations.Get(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "OK", r)
}

// CancelHandler accepts an empty body.
func (h *ReservationHandler) CancelHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req reservation.CancelRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	r, err := h.Reservations.Cancel(c.Request.Context(), a, c.Param("id"), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Reservation cancelled", r)
}
