package paymentRepo

import (
	"context"

	"salonify/models"
)

// PaymentRepository stores reconciled payment records.
type PaymentRepository interface {
	// InsertOrGet stores rec unless a record with the same provider reference exists,
	// in which case the stored one is returned with created=false.
	InsertOrGet(ctx context.Context, rec *models.PaymentRecord) (stored *models.PaymentRecord, created bool, err error)
	GetByProviderReference(ctx context.Context, ref string) (*models.PaymentRecord, error)
	GetByReservation(ctx context.Context, reservationID string) (*models.PaymentRecord, error)
}
