package models

import "time"

// AttemptState is the state of a single payment attempt against an intent.
type AttemptState string

const (
	AttemptCreated        AttemptState = "created"
	AttemptMethodAttached AttemptState = "method_attached"
	AttemptProcessing     AttemptState = "processing"
	AttemptSucceeded      AttemptState = "succeeded"
	AttemptRequiresAction AttemptState = "requires_action"
	AttemptFailed         AttemptState = "failed"
)

var attemptTransitions = map[AttemptState][]AttemptState{
	AttemptCreated:        {AttemptMethodAttached, AttemptFailed},
	AttemptMethodAttached: {AttemptSucceeded, AttemptRequiresAction, AttemptProcessing, AttemptFailed},
	AttemptProcessing:     {AttemptSucceeded, AttemptFailed},
}

// CanTransition reports whether an attempt may move from s to next.
// succeeded, requires_action and failed end the attempt.
func (s AttemptState) CanTransition(next AttemptState) bool {
	for _, allowed := range attemptTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible for this attempt.
func (s AttemptState) Terminal() bool {
	return len(attemptTransitions[s]) == 0
}

// PaymentAttempt is one entry in a reservation's payment log.
type PaymentAttempt struct {
	PaymentIntentID string       `bson:"payment_intent_id" json:"payment_intent_id"`
	PaymentMethodID string       `bson:"payment_method_id,omitempty" json:"payment_method_id,omitempty"`
	State           AttemptState `bson:"state" json:"state"`
	Message         string       `bson:"message,omitempty" json:"message,omitempty"`
	At              time.Time    `bson:"at" json:"at"`
}

const (
	PaymentProviderStripe    = "stripe"
	PaymentProviderPromotion = "promotion"

	PaymentStatusSucceeded = "succeeded"
)

// PaymentRecord is the local reconciliation of a succeeded payment against a reservation.
// ProviderReference is unique, so a second insert for the same intent is rejected.
type PaymentRecord struct {
	ID                string    `bson:"id" json:"id"`
	ReservationID     string    `bson:"reservation_id" json:"reservation_id"`
	ClientID          string    `bson:"client_id" json:"client_id"`
	Provider          string    `bson:"provider" json:"provider"`
	ProviderReference string    `bson:"provider_reference" json:"provider_reference"`
	PaymentMethodID   string    `bson:"payment_method_id,omitempty" json:"payment_method_id,omitempty"`
	Amount            int64     `bson:"amount" json:"amount"`
	Currency          string    `bson:"currency" json:"currency"`
	Status            string    `bson:"status" json:"status"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}
