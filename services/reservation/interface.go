package reservation

import (
	"context"
	"time"

	catalogRepo "salonify/database/repository/catalog"
	reservationRepo "salonify/database/repository/reservation"
	"salonify/models"
	"salonify/services/audit"
	"salonify/services/events"
	"salonify/services/promotion"
	"salonify/utils"
)

// ReservationService books and cancels appointments.
type ReservationService interface {
	Create(ctx context.Context, actor models.Actor, req CreateRequest) (*models.Reservation, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Reservation, error)
	// List scopes by role: clients see their own, stylists their appointments, admins everything.
	List(ctx context.Context, actor models.Actor, status models.ReservationStatus, skip int64, limit int) ([]models.Reservation, int64, error)
	Cancel(ctx context.Context, actor models.Actor, id, reason string) (*models.Reservation, error)
}

type CreateRequest struct {
	ServiceID     string    `json:"service_id" binding:"required"`
	StylistID     string    `json:"stylist_id" binding:"required"`
	BranchID      string    `json:"branch_id" binding:"required"`
	ScheduledAt   time.Time `json:"scheduled_at" binding:"required"`
	PromotionCode string    `json:"promotion_code" binding:"omitempty,max=32"`
	Notes         string    `json:"notes" binding:"omitempty,max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

var (
	ErrNotFound        = utils.NotFound("Reservation")
	ErrSlotUnavailable = utils.Conflict("The stylist is not available at the selected time.")
	ErrNotCancellable  = utils.Conflict("This reservation can no longer be cancelled.")
)

// DefaultReservationService is the production implementation.
type DefaultReservationService struct {
	Repo            reservationRepo.ReservationRepository
	Catalog         catalogRepo.CatalogRepository
	Promotions      promotion.PromotionService
	Locker          utils.Locker
	Audit           audit.Recorder
	Events          events.Publisher
	DefaultCurrency string
	Now             func() time.Time
}

func NewReservationService(
	repo reservationRepo.ReservationRepository,
	catalog catalogRepo.CatalogRepository,
	promotions promotion.PromotionService,
	locker utils.Locker,
	recorder audit.Recorder,
	publisher events.Publisher,
	defaultCurrency string,
) *DefaultReservationService {
	return &DefaultReservationService{
		Repo:            repo,
		Catalog:         catalog,
		Promotions:      promotions,
		Locker:          locker,
		Audit:           recorder,
		Events:          publisher,
		DefaultCurrency: defaultCurrency,
		Now:             time.Now,
	}
}
