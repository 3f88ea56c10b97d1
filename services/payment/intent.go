package payment

import (
	"context"
	"errors"
	"fmt"

	"salonify/database"
	"salonify/models"
	"salonify/utils"

	"go.uber.org/zap"
)

// loadOwned fetches the reservation and checks that actor may pay for it.
func (s *DefaultPaymentService) loadOwned(ctx context.Context, actor models.Actor, reservationID string) (*models.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, reservationID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFound("Reservation")
	}
	if err != nil {
		return nil, utils.Internal(err)
	}
	if res.ClientID != actor.UserID {
		return nil, utils.Forbidden("")
	}
	return res, nil
}

func notPayable(res *models.Reservation) error {
	switch res.Status {
	case models.ReservationConfirmed:
		return utils.Conflict("This reservation has already been paid.")
	case models.ReservationCancelled:
		return utils.Conflict("This reservation has been cancelled.")
	}
	return nil
}

func intentKey(reservationID string, attempt int) string {
	return fmt.Sprintf("reservation:%s:intent:%d", reservationID, attempt)
}

func (s *DefaultPaymentService) CreateIntent(ctx context.Context, actor models.Actor, reservationID string) (*IntentResult, error) {
	res, err := s.loadOwned(ctx, actor, reservationID)
	if err != nil {
		return nil, err
	}
	if err := notPayable(res); err != nil {
		return nil, err
	}

	if res.AmountDue == 0 {
		rec, err := s.settleWithoutCharge(ctx, res)
		if err != nil {
			return nil, err
		}
		return &IntentResult{Status: IntentSucceeded, Amount: 0, Currency: res.Currency, Payment: rec}, nil
	}

	if res.PaymentIntentID != "" {
		existing, err := s.Gateway.GetIntent(ctx, res.PaymentIntentID)
		if err != nil {
			return nil, err
		}
		switch existing.Status {
		case IntentSucceeded:
			rec, err := s.Reconcile(ctx, existing)
			if err != nil {
				return nil, err
			}
			return &IntentResult{PaymentIntentID: existing.ID, Status: existing.Status, Amount: existing.Amount, Currency: existing.Currency, Payment: rec}, nil
		case IntentCanceled:
			// fall through to a fresh attempt
		default:
			return intentResult(existing), nil
		}
	}

	attempt := res.IntentAttempts + 1
	intent, err := s.Gateway.CreateIntent(ctx, CreateIntentParams{
		Amount:         res.AmountDue,
		Currency:       res.Currency,
		ReservationID:  res.ID,
		ClientID:       res.ClientID,
		IdempotencyKey: intentKey(res.ID, attempt),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Reservations.SetPaymentIntent(ctx, res.ID, intent.ID, attempt); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.Conflict("This reservation is no longer awaiting payment.")
		}
		return nil, utils.Internal(err)
	}
	s.appendAttempt(ctx, res.ID, models.PaymentAttempt{PaymentIntentID: intent.ID, State: models.AttemptCreated})
	s.Audit.Record(ctx, actor.UserID, models.AuditPaymentAttempt, "reservation", res.ID, map[string]any{
		"payment_intent_id": intent.ID,
		"attempt":           attempt,
		"amount":            intent.Amount,
	})
	return intentResult(intent), nil
}

func intentResult(in *Intent) *IntentResult {
	return &IntentResult{
		PaymentIntentID: in.ID,
		ClientSecret:    in.ClientSecret,
		Status:          in.Status,
		Amount:          in.Amount,
		Currency:        in.Currency,
	}
}

// settleWithoutCharge confirms a reservation whose promotion covers the full price.
func (s *DefaultPaymentService) settleWithoutCharge(ctx context.Context, res *models.Reservation) (*models.PaymentRecord, error) {
	rec := s.newRecord(res, models.PaymentProviderPromotion, "promotion:"+res.ID, "", 0)
	return s.settle(ctx, res, rec)
}

func (s *DefaultPaymentService) appendAttempt(ctx context.Context, reservationID string, a models.PaymentAttempt) {
	if a.At.IsZero() {
		a.At = s.Now()
	}
	if err := s.Reservations.AppendPaymentAttempt(ctx, reservationID, a); err != nil {
		utils.GetLogger().Warn("failed to append payment attempt",
			zap.String("reservation_id", reservationID),
			zap.String("state", string(a.State)),
			zap.Error(err),
		)
	}
}
