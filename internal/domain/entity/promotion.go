package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de descuento de una Promotion.
const (
	DiscountPercentage   = "PERCENTAGE"
	DiscountFixed        = "FIXED"
	DiscountFreeShipping = "FREE_SHIPPING"
)

// Promotion cupón canjeable por código. MaxUsage es el cupo restante (nil = ilimitado).
type Promotion struct {
	ID            string
	Code          string // único, en mayúsculas
	Description   string
	DiscountType  string
	DiscountValue decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
	MaxUsage      *int
	UsageCount    int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidDiscountType indica si el tipo pertenece a la enumeración.
func ValidDiscountType(t string) bool {
	switch t {
	case DiscountPercentage, DiscountFixed, DiscountFreeShipping:
		return true
	}
	return false
}
