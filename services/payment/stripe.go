package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	IntentSucceeded             = string(stripe.PaymentIntentStatusSucceeded)
	IntentRequiresAction        = string(stripe.PaymentIntentStatusRequiresAction)
	IntentProcessing            = string(stripe.PaymentIntentStatusProcessing)
	IntentRequiresPaymentMethod = string(stripe.PaymentIntentStatusRequiresPaymentMethod)
	IntentRequiresConfirmation  = string(stripe.PaymentIntentStatusRequiresConfirmation)
	IntentCanceled              = string(stripe.PaymentIntentStatusCanceled)

	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// StripeGateway implements Gateway with the Stripe PaymentIntents API.
type StripeGateway struct {
	intents       *paymentintent.Client
	webhookSecret string
}

func NewStripeGateway(apiKey, webhookSecret string) *StripeGateway {
	return &StripeGateway{
		intents:       &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: apiKey},
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, p CreateIntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(p.Amount),
		Currency:           stripe.String(strings.ToLower(p.Currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.AddMetadata(MetadataReservationID, p.ReservationID)
	params.AddMetadata(MetadataClientID, p.ClientID)
	params.SetIdempotencyKey(p.IdempotencyKey)

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, translateStripeError(err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.intents.Get(id, params)
	if err != nil {
		return nil, translateStripeError(err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) ConfirmIntent(ctx context.Context, id, paymentMethodID string) (*Intent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
	}
	params.Context = ctx

	pi, err := g.intents.Confirm(id, params)
	if err != nil {
		return nil, translateStripeError(err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	we := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if strings.HasPrefix(we.Type, "payment_intent.") && event.Data != nil {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent from event %s: %w", event.ID, err)
		}
		we.Intent = toIntent(&pi)
	}
	return we, nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	in := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
	if pi.PaymentMethod != nil {
		in.PaymentMethodID = pi.PaymentMethod.ID
	}
	if pi.LastPaymentError != nil {
		in.LastError = pi.LastPaymentError.Msg
	}
	return in
}

func translateStripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.Type == stripe.ErrorTypeCard {
			return &Error{Kind: KindCard, Message: se.Msg, Err: err}
		}
		return &Error{Kind: KindProvider, Message: "", Err: err}
	}
	return &Error{Kind: KindProvider, Err: err}
}
