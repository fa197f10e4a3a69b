package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromotionRequest alta o edición completa de un cupón.
type PromotionRequest struct {
	Code          string          `json:"code" validate:"required,min=3,max=40"`
	Description   string          `json:"description" validate:"max=255"`
	DiscountType  string          `json:"discountType" validate:"required,oneof=PERCENTAGE FIXED FREE_SHIPPING"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	StartDate     *time.Time      `json:"startDate"`
	EndDate       *time.Time      `json:"endDate"`
	MaxUsage      *int            `json:"maxUsage" validate:"omitempty,min=0"`
	Active        *bool           `json:"active"`
}

// PromotionResponse salida de un cupón.
type PromotionResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	StartDate     *time.Time      `json:"startDate"`
	EndDate       *time.Time      `json:"endDate"`
	MaxUsage      *int            `json:"maxUsage"`
	UsageCount    int             `json:"usageCount"`
	Active        bool            `json:"active"`
}

// ValidatePromotionResponse resultado de GET /promotions/validate.
type ValidatePromotionResponse struct {
	Valid        bool            `json:"valid"`
	Code         string          `json:"code,omitempty"`
	Type         string          `json:"type,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	FreeShipping bool            `json:"freeShipping"`
}
