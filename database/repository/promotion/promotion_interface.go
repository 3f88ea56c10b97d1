package promotionRepo

import (
	"context"

	"salonify/models"
)

// PromotionRepository defines data access for promotion codes.
type PromotionRepository interface {
	Create(ctx context.Context, p *models.Promotion) error
	// GetByCode looks up the normalized code. Missing codes return database.ErrNotFound.
	GetByCode(ctx context.Context, code string) (*models.Promotion, error)
	List(ctx context.Context, skip int64, limit int) ([]models.Promotion, int64, error)
	// Redeem consumes one use if the usage limit allows it. It returns false when exhausted.
	Redeem(ctx context.Context, code string) (bool, error)
	// Release gives back a use taken by Redeem.
	Release(ctx context.Context, code string) error
}
