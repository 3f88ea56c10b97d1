package models

import "time"

// ReservationStatus is the lifecycle state of a booking.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// CanTransition reports whether a reservation may move from s to next.
// Confirmation is only reachable from pending; cancelled is terminal.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	switch s {
	case ReservationPending:
		return next == ReservationConfirmed || next == ReservationCancelled
	case ReservationConfirmed:
		return next == ReservationCancelled
	default:
		return false
	}
}

// Reservation is a booked appointment linking client, stylist, service and time.
// Money fields are minor currency units.
type Reservation struct {
	ID              string            `bson:"id" json:"id"`
	ClientID        string            `bson:"client_id" json:"client_id"`
	StylistID       string            `bson:"stylist_id" json:"stylist_id"`
	ServiceID       string            `bson:"service_id" json:"service_id"`
	BranchID        string            `bson:"branch_id" json:"branch_id"`
	ScheduledAt     time.Time         `bson:"scheduled_at" json:"scheduled_at"`
	EndsAt          time.Time         `bson:"ends_at" json:"ends_at"`
	Status          ReservationStatus `bson:"status" json:"status"`
	Currency        string            `bson:"currency" json:"currency"`
	Subtotal        int64             `bson:"subtotal" json:"subtotal"`
	PromotionCode   string            `bson:"promotion_code,omitempty" json:"promotion_code,omitempty"`
	Discount        int64             `bson:"discount" json:"discount"`
	AmountDue       int64             `bson:"amount_due" json:"amount_due"`
	Notes           string            `bson:"notes,omitempty" json:"notes,omitempty"`
	PaymentIntentID string            `bson:"payment_intent_id,omitempty" json:"payment_intent_id,omitempty"`
	IntentAttempts  int               `bson:"intent_attempts" json:"-"`
	PaymentRecordID string            `bson:"payment_record_id,omitempty" json:"payment_record_id,omitempty"`
	PaymentAttempts []PaymentAttempt  `bson:"payment_attempts,omitempty" json:"payment_attempts,omitempty"`
	CancelReason    string            `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	CreatedAt       time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `bson:"updated_at" json:"updated_at"`
	ConfirmedAt     *time.Time        `bson:"confirmed_at,omitempty" json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time        `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
}

// ReservationFilter narrows reservation listings. Empty fields match everything.
type ReservationFilter struct {
	ClientID  string
	StylistID string
	Status    ReservationStatus
}
