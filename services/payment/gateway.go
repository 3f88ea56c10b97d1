package payment

import "context"

// Intent is the provider-neutral view of a payment intent.
type Intent struct {
	ID              string
	ClientSecret    string
	Status          string
	Amount          int64
	Currency        string
	PaymentMethodID string
	LastError       string
	Metadata        map[string]string
}

// ReservationID is the reservation the intent was created for.
func (i *Intent) ReservationID() string {
	return i.Metadata[MetadataReservationID]
}

// CreateIntentParams describes a new intent. IdempotencyKey makes retries of the same
// attempt return the intent the provider already created.
type CreateIntentParams struct {
	Amount         int64
	Currency       string
	ReservationID  string
	ClientID       string
	IdempotencyKey string
}

// WebhookEvent is a verified provider notification.
type WebhookEvent struct {
	ID     string
	Type   string
	Intent *Intent
}

const (
	MetadataReservationID = "reservation_id"
	MetadataClientID      = "client_id"
)

// Gateway is the payment provider.
type Gateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	// ConfirmIntent attaches paymentMethodID and confirms. Card declines come back as *Error with KindCard.
	ConfirmIntent(ctx context.Context, id, paymentMethodID string) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
