package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonify/database"
	"salonify/models"
	"salonify/services/events"
	"salonify/services/promotion"
	"salonify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func invalid(field, message string) error {
	return utils.ValidationError("", map[string][]string{field: {message}})
}

type bookable struct {
	service *models.Service
	stylist *models.Stylist
	branch  *models.Branch
}

// resolve loads and cross-checks the catalog entries a booking refers to.
func (s *DefaultReservationService) resolve(ctx context.Context, req CreateRequest) (*bookable, error) {
	service, err := s.Catalog.GetService(ctx, req.ServiceID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, utils.Internal(err)
	}
	if service == nil || !service.Active {
		return nil, invalid("service_id", "The selected service id is invalid.")
	}
	stylist, err := s.Catalog.GetStylist(ctx, req.StylistID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, utils.Internal(err)
	}
	if stylist == nil || !stylist.Active {
		return nil, invalid("stylist_id", "The selected stylist id is invalid.")
	}
	branch, err := s.Catalog.GetBranch(ctx, req.BranchID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, utils.Internal(err)
	}
	if branch == nil || !branch.Active {
		return nil, invalid("branch_id", "The selected branch id is invalid.")
	}
	if stylist.BranchID != branch.ID {
		return nil, invalid("stylist_id", "The selected stylist does not work at this branch.")
	}
	if !stylist.Offers(service.ID) {
		return nil, invalid("service_id", "The selected stylist does not offer this service.")
	}
	if service.DurationMinutes <= 0 {
		return nil, utils.Internal(fmt.Errorf("service %s has no duration", service.ID))
	}
	return &bookable{service: service, stylist: stylist, branch: branch}, nil
}

func (s *DefaultReservationService) Create(ctx context.Context, actor models.Actor, req CreateRequest) (*models.Reservation, error) {
	now := s.Now()
	if !req.ScheduledAt.After(now) {
		return nil, invalid("scheduled_at", "The scheduled at must be a date in the future.")
	}
	b, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	start := req.ScheduledAt.UTC()
	end := start.Add(time.Duration(b.service.DurationMinutes) * time.Minute)

	// The slot lock serializes overlap check and insert for one stylist.
	release, ok, err := s.Locker.Acquire(ctx, "slot:"+b.stylist.ID, utils.SlotLockTTL)
	if err != nil {
		return nil, utils.Internal(err)
	}
	if !ok {
		return nil, ErrSlotUnavailable
	}
	defer release()

	overlap, err := s.Repo.HasOverlap(ctx, b.stylist.ID, start, end, "")
	if err != nil {
		return nil, utils.Internal(err)
	}
	if overlap {
		return nil, ErrSlotUnavailable
	}

	currency := b.service.Currency
	if currency == "" {
		currency = s.DefaultCurrency
	}
	res := &models.Reservation{
		ID:          uuid.New().String(),
		ClientID:    actor.UserID,
		StylistID:   b.stylist.ID,
		ServiceID:   b.service.ID,
		BranchID:    b.branch.ID,
		ScheduledAt: start,
		EndsAt:      end,
		Status:      models.ReservationPending,
		Currency:    strings.ToLower(currency),
		Subtotal:    b.service.Price,
		AmountDue:   b.service.Price,
		Notes:       strings.TrimSpace(req.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if code := models.NormalizePromotionCode(req.PromotionCode); code != "" {
		result, err := s.Promotions.Redeem(ctx, promotion.ValidateRequest{
			Code:      code,
			ServiceID: b.service.ID,
			BranchID:  b.branch.ID,
			Amount:    b.service.Price,
		})
		if err != nil {
			return nil, utils.Internal(err)
		}
		if !result.Valid {
			return nil, invalid("promotion_code", result.Message)
		}
		res.PromotionCode = code
		res.Discount = result.Savings
		res.AmountDue = result.DiscountedAmount
	}

	if err := s.Repo.Create(ctx, res); err != nil {
		if res.PromotionCode != "" {
			_ = s.Promotions.Release(ctx, res.PromotionCode)
		}
		return nil, utils.Internal(err)
	}

	utils.GetLogger().Info("reservation created",
		zap.String("reservation_id", res.ID),
		zap.String("stylist_id", res.StylistID),
		zap.Time("scheduled_at", res.ScheduledAt),
		zap.Int64("amount_due", res.AmountDue),
	)
	s.Audit.Record(ctx, actor.UserID, models.AuditReservationCreated, "reservation", res.ID, map[string]any{
		"service_id":     res.ServiceID,
		"stylist_id":     res.StylistID,
		"scheduled_at":   res.ScheduledAt,
		"amount_due":     res.AmountDue,
		"promotion_code": res.PromotionCode,
	})
	s.publish(ctx, events.ReservationCreated, res)
	return res, nil
}

func (s *DefaultReservationService) publish(ctx context.Context, eventType string, res *models.Reservation) {
	err := s.Events.Publish(ctx, events.Event{
		Type:       eventType,
		Key:        res.ID,
		OccurredAt: s.Now(),
		Data: map[string]any{
			"client_id":    res.ClientID,
			"stylist_id":   res.StylistID,
			"service_id":   res.ServiceID,
			"branch_id":    res.BranchID,
			"scheduled_at": res.ScheduledAt,
			"status":       res.Status,
		},
	})
	if err != nil {
		utils.GetLogger().Warn("failed to publish event", zap.String("type", eventType), zap.String("reservation_id", res.ID), zap.Error(err))
	}
}
