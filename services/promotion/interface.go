package promotion

import (
	"context"
	"time"

	promotionRepo "salonify/database/repository/promotion"
	"salonify/models"
)

// PromotionService validates, redeems and manages promotion codes.
type PromotionService interface {
	// Validate checks code against a prospective purchase. Business rule rejections come back
	// as a Result with Valid=false; the error is reserved for infrastructure failures.
	Validate(ctx context.Context, req ValidateRequest) (*Result, error)
	// Redeem validates and then consumes one use of the code.
	Redeem(ctx context.Context, req ValidateRequest) (*Result, error)
	// Release returns a use consumed by Redeem.
	Release(ctx context.Context, code string) error

	Create(ctx context.Context, req CreateRequest) (*models.Promotion, error)
	List(ctx context.Context, skip int64, limit int) ([]models.Promotion, int64, error)
}

// ValidateRequest is the purchase a code is being applied to. Amount is in minor units.
type ValidateRequest struct {
	Code      string `json:"code" binding:"required"`
	ServiceID string `json:"service_id"`
	BranchID  string `json:"branch_id"`
	Amount    int64  `json:"amount" binding:"gte=0"`
}

// Result is the outcome returned to clients.
type Result struct {
	Valid            bool                 `json:"valid"`
	Type             models.PromotionType `json:"type,omitempty"`
	Discount         float64              `json:"discount"`
	DiscountedAmount int64                `json:"discounted_amount"`
	Savings          int64                `json:"savings"`
	Message          string               `json:"message,omitempty"`
}

// CreateRequest is the admin payload for a new promotion.
type CreateRequest struct {
	Code        string               `json:"code" binding:"required,min=3,max=32"`
	Description string               `json:"description"`
	Type        models.PromotionType `json:"type" binding:"required,oneof=percentage fixed free_service"`
	Discount    float64              `json:"discount" binding:"gte=0"`
	MaxDiscount int64                `json:"max_discount" binding:"gte=0"`
	MinAmount   int64                `json:"min_amount" binding:"gte=0"`
	ServiceIDs  []string             `json:"service_ids"`
	BranchIDs   []string             `json:"branch_ids"`
	StartsAt    *time.Time           `json:"starts_at"`
	ExpiresAt   *time.Time           `json:"expires_at"`
	MaxUses     int                  `json:"max_uses" binding:"gte=0"`
}

// DefaultPromotionService is the production implementation.
type DefaultPromotionService struct {
	Repo promotionRepo.PromotionRepository
	Now  func() time.Time
}

func NewPromotionService(repo promotionRepo.PromotionRepository) *DefaultPromotionService {
	return &DefaultPromotionService{Repo: repo, Now: time.Now}
}
