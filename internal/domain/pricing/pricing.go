// Package pricing reglas puras de precios del carrito y de cupones (servicio de dominio).
package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// NormalizeCode convención de los códigos de cupón: sin espacios y en mayúsculas.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Subtotal Σ(precio × cantidad) sobre el precio de la instantánea, sin aplicar la rebaja por línea.
func Subtotal(items []entity.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Matches predicado de vigencia: activo, dentro de la ventana [StartDate, EndDate] y con cupo (>0 o ilimitado).
// El código se compara fuera, por igualdad exacta tras NormalizeCode.
func Matches(p *entity.Promotion, now time.Time) bool {
	if p == nil || !p.Active {
		return false
	}
	if p.StartDate != nil && p.StartDate.After(now) {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(now) {
		return false
	}
	if p.MaxUsage != nil && *p.MaxUsage <= 0 {
		return false
	}
	return true
}

// ComputeDiscount monto de descuento del cupón sobre el subtotal.
// PERCENTAGE → subtotal × valor / 100; FIXED → valor tal cual (puede superar el subtotal);
// FREE_SHIPPING → 0 (el envío se resuelve aparte).
func ComputeDiscount(subtotal decimal.Decimal, p *entity.Promotion) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	switch p.DiscountType {
	case entity.DiscountPercentage:
		return subtotal.Mul(p.DiscountValue).Div(hundred).Round(2)
	case entity.DiscountFixed:
		return p.DiscountValue
	}
	return decimal.Zero
}

// ApplyDiscount descuento efectivo a restar: nunca negativo ni mayor que el subtotal.
func ApplyDiscount(subtotal, discount decimal.Decimal) decimal.Decimal {
	if discount.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return decimal.Min(discount, subtotal)
}

// ShippingCost costo de envío: gratis si el cupón es FREE_SHIPPING.
func ShippingCost(flat decimal.Decimal, p *entity.Promotion) decimal.Decimal {
	if p != nil && p.DiscountType == entity.DiscountFreeShipping {
		return decimal.Zero
	}
	return flat
}
