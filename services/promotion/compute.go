package promotion

import (
	"github.com/shopspring/decimal"

	"salonify/models"
)

var hundred = decimal.NewFromInt(100)

// Computation is the money side of applying a promotion.
type Computation struct {
	Savings          int64
	DiscountedAmount int64
}

// Compute applies p to amount. It is pure: the same promotion and amount always give
// the same result. Savings never exceed amount and the discounted amount is never negative.
func Compute(p *models.Promotion, amount int64) Computation {
	if amount <= 0 {
		return Computation{}
	}

	var savings int64
	switch p.Type {
	case models.PromotionPercentage:
		// Round rounds half away from zero, which is half-up for non-negative amounts.
		savings = decimal.NewFromInt(amount).
			Mul(decimal.NewFromFloat(p.Discount)).
			Div(hundred).
			Round(0).
			IntPart()
		if p.MaxDiscount > 0 && savings > p.MaxDiscount {
			savings = p.MaxDiscount
		}
	case models.PromotionFixed:
		savings = decimal.NewFromFloat(p.Discount).Round(0).IntPart()
	case models.PromotionFreeService:
		savings = amount
	}

	if savings < 0 {
		savings = 0
	}
	if savings > amount {
		savings = amount
	}
	return Computation{Savings: savings, DiscountedAmount: amount - savings}
}
