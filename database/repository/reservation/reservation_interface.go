package reservationRepo

import (
	"context"
	"time"

	"salonify/models"
)

// ReservationRepository defines the data access methods used by the booking and payment flows.
type ReservationRepository interface {
	// Create inserts a new reservation.
	Create(ctx context.Context, r *models.Reservation) error
	// GetByID returns database.ErrNotFound when the reservation does not exist.
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	// List returns one page of reservations matching filter plus the total match count.
	List(ctx context.Context, filter models.ReservationFilter, skip int64, limit int) ([]models.Reservation, int64, error)
	// HasOverlap reports whether the stylist has a live reservation intersecting [start, end).
	HasOverlap(ctx context.Context, stylistID string, start, end time.Time, excludeID string) (bool, error)
	// SetPaymentIntent records the provider intent on a pending reservation.
	SetPaymentIntent(ctx context.Context, id, intentID string, attempts int) error
	// AppendPaymentAttempt pushes an entry onto the payment attempt log.
	AppendPaymentAttempt(ctx context.Context, id string, attempt models.PaymentAttempt) error
	// MarkConfirmed moves pending -> confirmed. It returns false when the reservation was not pending.
	MarkConfirmed(ctx context.Context, id, paymentRecordID string, at time.Time) (bool, error)
	// Cancel moves pending|confirmed -> cancelled. It returns false when neither applied.
	Cancel(ctx context.Context, id, reason string, at time.Time) (bool, error)
}
