package payment

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a payment failure for the client.
type ErrorKind string

const (
	// KindCard is a decline reported by the card network. Message is the provider's text.
	KindCard ErrorKind = "card"
	// KindRequiresAction means the customer must complete authentication (3-D Secure).
	KindRequiresAction ErrorKind = "requires_action"
	// KindFailed is a non-card failure the provider reported on the intent.
	KindFailed ErrorKind = "failed"
	// KindProvider is an outage or unexpected response from the provider.
	KindProvider ErrorKind = "provider"
)

// Error is a payment outcome the caller must surface to the user.
type Error struct {
	Kind            ErrorKind
	Message         string
	PaymentIntentID string
	ClientSecret    string
	Err             error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("payment %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is safe to show. Provider outages never leak their cause.
func (e *Error) UserMessage() string {
	if e.Kind == KindProvider || e.Message == "" {
		return "The payment provider is unavailable. Please try again shortly."
	}
	return e.Message
}

var (
	// ErrReconcileInProgress means another worker holds the reconciliation lock for the intent.
	ErrReconcileInProgress = errors.New("payment reconciliation already in progress")
	// ErrInvalidSignature is returned for webhook payloads that fail verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
