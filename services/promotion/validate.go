package promotion

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"salonify/database"
	"salonify/models"
	"salonify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MsgUnknown         = "This promotion code does not exist."
	MsgInactive        = "This promotion code is no longer active."
	MsgNotStarted      = "This promotion code is not active yet."
	MsgExpired         = "This promotion code has expired."
	MsgUsageLimit      = "This promotion code has reached its usage limit."
	MsgServiceMismatch = "This promotion code does not apply to the selected service."
	MsgBranchMismatch  = "This promotion code is not valid at the selected branch."
	MsgBelowMinimum    = "The amount does not meet the minimum required for this promotion code."
)

func rejected(message string) *Result {
	return &Result{Valid: false, Message: message}
}

// check applies every rule except the usage count, returning "" when p is applicable.
func check(p *models.Promotion, req ValidateRequest, now time.Time) string {
	switch {
	case !p.Active:
		return MsgInactive
	case p.StartsAt != nil && now.Before(*p.StartsAt):
		return MsgNotStarted
	case p.ExpiresAt != nil && !now.Before(*p.ExpiresAt):
		return MsgExpired
	case p.MaxUses > 0 && p.TimesUsed >= p.MaxUses:
		return MsgUsageLimit
	case len(p.ServiceIDs) > 0 && !slices.Contains(p.ServiceIDs, req.ServiceID):
		return MsgServiceMismatch
	case len(p.BranchIDs) > 0 && !slices.Contains(p.BranchIDs, req.BranchID):
		return MsgBranchMismatch
	case p.MinAmount > 0 && req.Amount < p.MinAmount:
		return MsgBelowMinimum
	}
	return ""
}

func accepted(p *models.Promotion, amount int64) *Result {
	c := Compute(p, amount)
	return &Result{
		Valid:            true,
		Type:             p.Type,
		Discount:         p.Discount,
		DiscountedAmount: c.DiscountedAmount,
		Savings:          c.Savings,
	}
}

func (s *DefaultPromotionService) Validate(ctx context.Context, req ValidateRequest) (*Result, error) {
	p, err := s.Repo.GetByCode(ctx, req.Code)
	if errors.Is(err, database.ErrNotFound) {
		return rejected(MsgUnknown), nil
	}
	if err != nil {
		return nil, fmt.Errorf("validate promotion: %w", err)
	}
	if msg := check(p, req, s.Now()); msg != "" {
		return rejected(msg), nil
	}
	return accepted(p, req.Amount), nil
}

func (s *DefaultPromotionService) Redeem(ctx context.Context, req ValidateRequest) (*Result, error) {
	res, err := s.Validate(ctx, req)
	if err != nil || !res.Valid {
		return res, err
	}
	ok, err := s.Repo.Redeem(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("redeem promotion: %w", err)
	}
	if !ok {
		// Lost the race for the last use.
		return rejected(MsgUsageLimit), nil
	}
	return res, nil
}

func (s *DefaultPromotionService) Release(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	if err := s.Repo.Release(ctx, code); err != nil {
		utils.GetLogger().Warn("failed to release promotion use", zap.String("code", code), zap.Error(err))
		return err
	}
	return nil
}

func (s *DefaultPromotionService) Create(ctx context.Context, req CreateRequest) (*models.Promotion, error) {
	fields := map[string][]string{}
	if req.Type == models.PromotionPercentage && (req.Discount <= 0 || req.Discount > 100) {
		fields["discount"] = append(fields["discount"], "The discount must be between 0 and 100 for percentage promotions.")
	}
	if req.Type == models.PromotionFixed && req.Discount <= 0 {
		fields["discount"] = append(fields["discount"], "The discount must be greater than 0.")
	}
	if req.StartsAt != nil && req.ExpiresAt != nil && !req.ExpiresAt.After(*req.StartsAt) {
		fields["expires_at"] = append(fields["expires_at"], "The expires at must be a date after starts at.")
	}
	if len(fields) > 0 {
		return nil, utils.ValidationError("", fields)
	}

	now := s.Now()
	p := &models.Promotion{
		ID:          uuid.New().String(),
		Code:        models.NormalizePromotionCode(req.Code),
		Description: req.Description,
		Type:        req.Type,
		Discount:    req.Discount,
		MaxDiscount: req.MaxDiscount,
		MinAmount:   req.MinAmount,
		ServiceIDs:  req.ServiceIDs,
		BranchIDs:   req.BranchIDs,
		StartsAt:    req.StartsAt,
		ExpiresAt:   req.ExpiresAt,
		MaxUses:     req.MaxUses,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, utils.ValidationError("", map[string][]string{"code": {"The code has already been taken."}})
		}
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	return p, nil
}

func (s *DefaultPromotionService) List(ctx context.Context, skip int64, limit int) ([]models.Promotion, int64, error) {
	return s.Repo.List(ctx, skip, limit)
}
