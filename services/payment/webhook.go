package payment

import (
	"context"
	"errors"

	"salonify/models"
	"salonify/services/events"
	"salonify/utils"

	"go.uber.org/zap"
)

func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	ev, err := s.Gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	logger := utils.GetLogger().With(zap.String("event_id", ev.ID), zap.String("event_type", ev.Type))

	if ev.Intent == nil {
		logger.Debug("ignoring webhook event")
		return nil
	}

	switch ev.Type {
	case EventIntentSucceeded:
		_, err := s.Reconcile(ctx, ev.Intent)
		var apiErr *utils.APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			logger.Warn("webhook reconciliation rejected", zap.String("reason", apiErr.Message))
			return nil
		}
		return err

	case EventIntentFailed:
		reservationID := ev.Intent.ReservationID()
		if reservationID == "" {
			return nil
		}
		msg := ev.Intent.LastError
		if msg == "" {
			msg = msgPaymentFailed
		}
		s.appendAttempt(ctx, reservationID, models.PaymentAttempt{
			PaymentIntentID: ev.Intent.ID,
			PaymentMethodID: ev.Intent.PaymentMethodID,
			State:           models.AttemptFailed,
			Message:         msg,
		})
		s.Audit.Record(ctx, models.ActorSystem, models.AuditPaymentFailed, "reservation", reservationID, map[string]any{
			"payment_intent_id": ev.Intent.ID,
			"message":           msg,
		})
		s.publish(ctx, events.PaymentFailed, reservationID, map[string]any{"payment_intent_id": ev.Intent.ID, "message": msg})
		logger.Info("payment failed", zap.String("reservation_id", reservationID))
		return nil

	default:
		logger.Debug("ignoring webhook event")
		return nil
	}
}
