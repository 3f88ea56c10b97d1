package reservation

import (
	"context"

	"salonify/models"
	"salonify/services/events"
	"salonify/utils"

	"go.uber.org/zap"
)

func (s *DefaultReservationService) Cancel(ctx context.Context, actor models.Actor, id, reason string) (*models.Reservation, error) {
	res, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !res.Status.CanTransition(models.ReservationCancelled) {
		return nil, ErrNotCancellable
	}

	now := s.Now()
	moved, err := s.Repo.Cancel(ctx, res.ID, reason, now)
	if err != nil {
		return nil, utils.Internal(err)
	}
	if !moved {
		return nil, ErrNotCancellable
	}

	wasPending := res.Status == models.ReservationPending
	res.Status = models.ReservationCancelled
	res.CancelReason = reason
	res.CancelledAt = &now
	res.UpdatedAt = now

	// A pending booking never paid, so its promotion use goes back.
	if wasPending && res.PromotionCode != "" {
		if err := s.Promotions.Release(ctx, res.PromotionCode); err != nil {
			utils.GetLogger().Warn("promotion use not released", zap.String("reservation_id", res.ID), zap.Error(err))
		}
	}

	s.Audit.Record(ctx, actor.UserID, models.AuditReservationCancelled, "reservation", res.ID, map[string]any{
		"reason":      reason,
		"was_pending": wasPending,
	})
	s.publish(ctx, events.ReservationCancelled, res)
	return res, nil
}
