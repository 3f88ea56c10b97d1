package models

import (
	"strings"
	"time"
)

// PromotionType selects how a promotion's discount is applied.
type PromotionType string

const (
	PromotionPercentage  PromotionType = "percentage"
	PromotionFixed       PromotionType = "fixed"
	PromotionFreeService PromotionType = "free_service"
)

func (t PromotionType) Valid() bool {
	switch t {
	case PromotionPercentage, PromotionFixed, PromotionFreeService:
		return true
	}
	return false
}

// Promotion is a discount code with applicability constraints.
// Discount is a percent for percentage promotions and minor units for fixed ones.
type Promotion struct {
	ID          string        `bson:"id" json:"id"`
	Code        string        `bson:"code" json:"code"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Type        PromotionType `bson:"type" json:"type"`
	Discount    float64       `bson:"discount" json:"discount"`
	MaxDiscount int64         `bson:"max_discount,omitempty" json:"max_discount,omitempty"`
	MinAmount   int64         `bson:"min_amount,omitempty" json:"min_amount,omitempty"`
	ServiceIDs  []string      `bson:"service_ids,omitempty" json:"service_ids,omitempty"`
	BranchIDs   []string      `bson:"branch_ids,omitempty" json:"branch_ids,omitempty"`
	StartsAt    *time.Time    `bson:"starts_at,omitempty" json:"starts_at,omitempty"`
	ExpiresAt   *time.Time    `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	MaxUses     int           `bson:"max_uses" json:"max_uses"`
	TimesUsed   int           `bson:"times_used" json:"times_used"`
	Active      bool          `bson:"active" json:"active"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

// NormalizePromotionCode is the canonical form codes are stored and looked up in.
func NormalizePromotionCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
