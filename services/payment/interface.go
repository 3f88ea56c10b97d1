package payment

import (
	"context"
	"time"

	catalogRepo "salonify/database/repository/catalog"
	paymentRepo "salonify/database/repository/payment"
	reservationRepo "salonify/database/repository/reservation"
	userRepo "salonify/database/repository/user"
	"salonify/models"
	"salonify/services/audit"
	"salonify/services/events"
	"salonify/services/notification"
	"salonify/utils"
)

// PaymentService drives a reservation from pending to paid.
type PaymentService interface {
	CreateIntent(ctx context.Context, actor models.Actor, reservationID string) (*IntentResult, error)
	Confirm(ctx context.Context, actor models.Actor, req ConfirmRequest) (*ConfirmResult, error)
	// Reconcile records a succeeded intent and confirms its reservation. It is idempotent.
	Reconcile(ctx context.Context, intent *Intent) (*models.PaymentRecord, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type CreateIntentRequest struct {
	ReservationID string `json:"reservation_id" binding:"required"`
}

// IntentResult is returned to the client to drive the payment sheet.
// Free reservations settle immediately and carry Payment instead of a client secret.
type IntentResult struct {
	PaymentIntentID string                `json:"payment_intent_id,omitempty"`
	ClientSecret    string                `json:"client_secret,omitempty"`
	Status          string                `json:"status"`
	Amount          int64                 `json:"amount"`
	Currency        string                `json:"currency"`
	Payment         *models.PaymentRecord `json:"payment,omitempty"`
}

type ConfirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	ReservationID   string `json:"reservation_id" binding:"required"`
}

// ConfirmResult is a non-error confirmation outcome: succeeded with a record, or processing.
type ConfirmResult struct {
	Status  string                `json:"status"`
	Payment *models.PaymentRecord `json:"payment,omitempty"`
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Reservations reservationRepo.ReservationRepository
	Payments     paymentRepo.PaymentRepository
	Users        userRepo.UserRepository
	Catalog      catalogRepo.CatalogRepository
	Gateway      Gateway
	Locker       utils.Locker
	Audit        audit.Recorder
	Events       events.Publisher
	Notifier     notification.NotificationService
	Now          func() time.Time
}
