package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product artículo del catálogo con su existencia disponible.
type Product struct {
	ID              string
	CategoryID      string
	SKU             string
	Name            string
	Description     string
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal // 0–100, rebaja propia del producto
	Stock           int             // puede quedar en cero, nunca negativo tras una orden
	ImageURL        string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

var hundred = decimal.NewFromInt(100)

// EffectivePrice precio unitario con la rebaja del producto aplicada, redondeado a 2 decimales.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPercent.LessThanOrEqual(decimal.Zero) {
		return p.Price
	}
	off := p.Price.Mul(p.DiscountPercent).Div(hundred)
	return p.Price.Sub(off).Round(2)
}
