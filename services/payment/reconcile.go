package payment

import (
	"context"
	"errors"
	"fmt"

	"salonify/database"
	"salonify/models"
	"salonify/services/events"
	"salonify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultPaymentService) Reconcile(ctx context.Context, intent *Intent) (*models.PaymentRecord, error) {
	if intent == nil || intent.Status != IntentSucceeded {
		return nil, fmt.Errorf("cannot reconcile a payment intent that has not succeeded")
	}
	reservationID := intent.ReservationID()
	if reservationID == "" {
		return nil, utils.ValidationError("Payment intent carries no reservation.", map[string][]string{
			"metadata": {fmt.Sprintf("payment intent %s has no %s", intent.ID, MetadataReservationID)},
		})
	}

	release, ok, err := s.Locker.Acquire(ctx, "reconcile:"+intent.ID, utils.ReconcileLockTTL)
	if err != nil {
		return nil, utils.Internal(err)
	}
	if !ok {
		if rec, err := s.Payments.GetByProviderReference(ctx, intent.ID); err == nil {
			return rec, nil
		}
		return nil, ErrReconcileInProgress
	}
	defer release()

	res, err := s.Reservations.GetByID(ctx, reservationID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFound("Reservation")
	}
	if err != nil {
		return nil, utils.Internal(fmt.Errorf("reconcile %s: %w", intent.ID, err))
	}
	if intent.Amount != res.AmountDue {
		utils.GetLogger().Warn("payment amount differs from amount due",
			zap.String("reservation_id", res.ID),
			zap.String("payment_intent_id", intent.ID),
			zap.Int64("amount", intent.Amount),
			zap.Int64("amount_due", res.AmountDue),
		)
	}

	rec := s.newRecord(res, models.PaymentProviderStripe, intent.ID, intent.PaymentMethodID, intent.Amount)
	if intent.Currency != "" {
		rec.Currency = intent.Currency
	}
	return s.settle(ctx, res, rec)
}

func (s *DefaultPaymentService) newRecord(res *models.Reservation, provider, reference, methodID string, amount int64) *models.PaymentRecord {
	return &models.PaymentRecord{
		ID:                uuid.New().String(),
		ReservationID:     res.ID,
		ClientID:          res.ClientID,
		Provider:          provider,
		ProviderReference: reference,
		PaymentMethodID:   methodID,
		Amount:            amount,
		Currency:          res.Currency,
		Status:            models.PaymentStatusSucceeded,
		CreatedAt:         s.Now(),
	}
}

// settle stores rec and moves the reservation pending -> confirmed. The record is
// written first so a confirmed reservation always has one.
func (s *DefaultPaymentService) settle(ctx context.Context, res *models.Reservation, rec *models.PaymentRecord) (*models.PaymentRecord, error) {
	stored, created, err := s.Payments.InsertOrGet(ctx, rec)
	if err != nil {
		return nil, utils.Internal(err)
	}
	logger := utils.GetLogger().With(
		zap.String("reservation_id", res.ID),
		zap.String("provider_reference", stored.ProviderReference),
	)
	if created {
		s.Audit.Record(ctx, models.ActorSystem, models.AuditPaymentReconciled, "payment", stored.ID, map[string]any{
			"reservation_id": res.ID,
			"provider":       stored.Provider,
			"amount":         stored.Amount,
		})
	}

	if !res.Status.CanTransition(models.ReservationConfirmed) {
		if res.Status == models.ReservationCancelled {
			logger.Warn("payment succeeded for a cancelled reservation, record kept for refund")
		}
		return stored, nil
	}

	now := s.Now()
	moved, err := s.Reservations.MarkConfirmed(ctx, res.ID, stored.ID, now)
	if err != nil {
		return nil, utils.Internal(err)
	}
	if !moved {
		logger.Debug("reservation was already settled")
		return stored, nil
	}

	res.Status = models.ReservationConfirmed
	res.PaymentRecordID = stored.ID
	res.ConfirmedAt = &now
	res.UpdatedAt = now
	logger.Info("reservation confirmed", zap.Int64("amount", stored.Amount))

	if stored.Provider == models.PaymentProviderStripe {
		s.appendAttempt(ctx, res.ID, models.PaymentAttempt{
			PaymentIntentID: stored.ProviderReference,
			PaymentMethodID: stored.PaymentMethodID,
			State:           models.AttemptSucceeded,
		})
	}
	s.Audit.Record(ctx, models.ActorSystem, models.AuditReservationConfirmed, "reservation", res.ID, map[string]any{
		"payment_record_id": stored.ID,
		"amount":            stored.Amount,
	})
	s.publish(ctx, events.ReservationConfirmed, res.ID, map[string]any{
		"client_id":         res.ClientID,
		"stylist_id":        res.StylistID,
		"scheduled_at":      res.ScheduledAt,
		"payment_record_id": stored.ID,
		"amount":            stored.Amount,
		"currency":          stored.Currency,
	})
	s.notify(ctx, res, stored)
	return stored, nil
}

func (s *DefaultPaymentService) recordFailure(ctx context.Context, actorID string, res *models.Reservation, intentID, message string) {
	s.Audit.Record(ctx, actorID, models.AuditPaymentFailed, "reservation", res.ID, map[string]any{
		"payment_intent_id": intentID,
		"message":           message,
	})
	s.publish(ctx, events.PaymentFailed, res.ID, map[string]any{
		"payment_intent_id": intentID,
		"message":           message,
	})
}

func (s *DefaultPaymentService) publish(ctx context.Context, eventType, reservationID string, data map[string]any) {
	err := s.Events.Publish(ctx, events.Event{Type: eventType, Key: reservationID, OccurredAt: s.Now(), Data: data})
	if err != nil {
		utils.GetLogger().Warn("failed to publish event",
			zap.String("type", eventType),
			zap.String("reservation_id", reservationID),
			zap.Error(err),
		)
	}
}

// notify queues the confirmation email. Failures are logged; the reservation stays confirmed.
func (s *DefaultPaymentService) notify(ctx context.Context, res *models.Reservation, rec *models.PaymentRecord) {
	logger := utils.GetLogger().With(zap.String("reservation_id", res.ID))

	client, err := s.Users.GetByID(ctx, res.ClientID)
	if err != nil {
		logger.Error("confirmation skipped: client lookup failed", zap.Error(err))
		return
	}
	stylist, err := s.Catalog.GetStylist(ctx, res.StylistID)
	if err != nil {
		logger.Error("confirmation skipped: stylist lookup failed", zap.Error(err))
		return
	}
	service, err := s.Catalog.GetService(ctx, res.ServiceID)
	if err != nil {
		logger.Error("confirmation skipped: service lookup failed", zap.Error(err))
		return
	}
	branch, err := s.Catalog.GetBranch(ctx, res.BranchID)
	if err != nil {
		logger.Error("confirmation skipped: branch lookup failed", zap.Error(err))
		return
	}

	payload := models.ConfirmationPayload{
		Reservation: *res,
		Client:      *client,
		Stylist:     *stylist,
		Service:     *service,
		Branch:      *branch,
		Payment:     *rec,
	}
	if err := s.Notifier.NotifyConfirmed(ctx, payload); err != nil {
		logger.Error("failed to queue confirmation", zap.Error(err))
	}
}
