package payment

import (
	"context"
	"errors"
	"fmt"

	"salonify/database"
	"salonify/models"
	"salonify/utils"
)

// attemptLog walks one confirmation attempt through the attempt state machine,
// appending every state it enters to the reservation's log.
type attemptLog struct {
	s             *DefaultPaymentService
	reservationID string
	intentID      string
	methodID      string
	state         models.AttemptState
}

func (l *attemptLog) advance(ctx context.Context, next models.AttemptState, message string, persist bool) error {
	if !l.state.CanTransition(next) {
		return fmt.Errorf("illegal payment attempt transition %s -> %s", l.state, next)
	}
	l.state = next
	if persist {
		l.s.appendAttempt(ctx, l.reservationID, models.PaymentAttempt{
			PaymentIntentID: l.intentID,
			PaymentMethodID: l.methodID,
			State:           next,
			Message:         message,
		})
	}
	return nil
}

const (
	msgRequiresAction = "This payment requires additional authentication."
	msgPaymentFailed  = "The payment could not be completed."
	msgIntentMismatch = "The payment intent does not belong to this reservation."
)

func (s *DefaultPaymentService) Confirm(ctx context.Context, actor models.Actor, req ConfirmRequest) (*ConfirmResult, error) {
	res, err := s.loadOwned(ctx, actor, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if res.PaymentIntentID == "" || res.PaymentIntentID != req.PaymentIntentID {
		return nil, utils.ValidationError("", map[string][]string{"payment_intent_id": {msgIntentMismatch}})
	}

	// A retried confirm after success returns the existing record.
	rec, err := s.Payments.GetByProviderReference(ctx, req.PaymentIntentID)
	if err == nil {
		return &ConfirmResult{Status: IntentSucceeded, Payment: rec}, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, utils.Internal(err)
	}
	if err := notPayable(res); err != nil {
		return nil, err
	}

	// The browser normally confirms with the provider before calling us, so the
	// intent's current state decides whether a server side confirm is needed.
	current, err := s.Gateway.GetIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, asPaymentError(err, req.PaymentIntentID)
	}

	attempt := &attemptLog{
		s:             s,
		reservationID: res.ID,
		intentID:      req.PaymentIntentID,
		methodID:      req.PaymentMethodID,
		state:         models.AttemptCreated,
	}

	intent := current
	switch current.Status {
	case IntentRequiresPaymentMethod, IntentRequiresConfirmation:
		if err := attempt.advance(ctx, models.AttemptMethodAttached, "", true); err != nil {
			return nil, utils.Internal(err)
		}
		intent, err = s.Gateway.ConfirmIntent(ctx, req.PaymentIntentID, req.PaymentMethodID)
		if err != nil {
			perr := asPaymentError(err, req.PaymentIntentID)
			_ = attempt.advance(ctx, models.AttemptFailed, perr.UserMessage(), true)
			if perr.Kind == KindCard {
				s.recordFailure(ctx, actor.UserID, res, req.PaymentIntentID, perr.Message)
			}
			return nil, perr
		}

	case IntentCanceled:
		_ = attempt.advance(ctx, models.AttemptFailed, msgPaymentFailed, true)
		s.recordFailure(ctx, actor.UserID, res, current.ID, msgPaymentFailed)
		return nil, &Error{Kind: KindFailed, Message: msgPaymentFailed, PaymentIntentID: current.ID}

	default:
		// Already confirmed client side; record the method the provider holds.
		if current.PaymentMethodID != "" {
			attempt.methodID = current.PaymentMethodID
		}
		if err := attempt.advance(ctx, models.AttemptMethodAttached, "", true); err != nil {
			return nil, utils.Internal(err)
		}
	}

	switch intent.Status {
	case IntentSucceeded:
		// Reconcile appends the succeeded entry once the reservation is confirmed.
		if err := attempt.advance(ctx, models.AttemptSucceeded, "", false); err != nil {
			return nil, utils.Internal(err)
		}
		rec, err := s.Reconcile(ctx, intent)
		if errors.Is(err, ErrReconcileInProgress) {
			return &ConfirmResult{Status: IntentProcessing}, nil
		}
		if err != nil {
			return nil, err
		}
		return &ConfirmResult{Status: IntentSucceeded, Payment: rec}, nil

	case IntentRequiresAction:
		// Surfaced to the customer as is; never retried server side.
		if err := attempt.advance(ctx, models.AttemptRequiresAction, msgRequiresAction, true); err != nil {
			return nil, utils.Internal(err)
		}
		return nil, &Error{
			Kind:            KindRequiresAction,
			Message:         msgRequiresAction,
			PaymentIntentID: intent.ID,
			ClientSecret:    intent.ClientSecret,
		}

	case IntentProcessing:
		if err := attempt.advance(ctx, models.AttemptProcessing, "", true); err != nil {
			return nil, utils.Internal(err)
		}
		return &ConfirmResult{Status: IntentProcessing}, nil

	default:
		msg := intent.LastError
		if msg == "" {
			msg = msgPaymentFailed
		}
		_ = attempt.advance(ctx, models.AttemptFailed, msg, true)
		s.recordFailure(ctx, actor.UserID, res, intent.ID, msg)
		return nil, &Error{Kind: KindFailed, Message: msg, PaymentIntentID: intent.ID}
	}
}

func asPaymentError(err error, intentID string) *Error {
	var perr *Error
	if !errors.As(err, &perr) {
		perr = &Error{Kind: KindProvider, Err: err}
	}
	perr.PaymentIntentID = intentID
	return perr
}
