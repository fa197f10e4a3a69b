package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func promo(kind, value string) *entity.Promotion {
	return &entity.Promotion{Code: "X", DiscountType: kind, DiscountValue: dec(value), Active: true}
}

func TestComputeDiscount_Ahorra10(t *testing.T) {
	p := &entity.Promotion{Code: "AHORRA10", DiscountType: entity.DiscountPercentage, DiscountValue: dec("10"), Active: true}

	assert.True(t, pricing.Matches(p, time.Now()))
	assert.True(t, dec("10.00").Equal(pricing.ComputeDiscount(dec("100.00"), p)))
}

func TestComputeDiscount_PorcentajeEsProporcional(t *testing.T) {
	p := promo(entity.DiscountPercentage, "15")
	for _, sub := range []string{"0", "1", "19.99", "250.40", "1000"} {
		want := dec(sub).Mul(dec("15")).Div(dec("100")).Round(2)
		assert.True(t, want.Equal(pricing.ComputeDiscount(dec(sub), p)), "subtotal %s", sub)
	}
}

func TestComputeDiscount_FijoIgnoraSubtotal(t *testing.T) {
	p := promo(entity.DiscountFixed, "30")
	assert.True(t, dec("30").Equal(pricing.ComputeDiscount(dec("10"), p)))
	assert.True(t, dec("30").Equal(pricing.ComputeDiscount(dec("500"), p)))
}

func TestComputeDiscount_EnvioGratisYNil(t *testing.T) {
	assert.True(t, pricing.ComputeDiscount(dec("100"), promo(entity.DiscountFreeShipping, "0")).IsZero())
	assert.True(t, pricing.ComputeDiscount(dec("100"), nil).IsZero())
}

func TestApplyDiscount_AcotaAlSubtotal(t *testing.T) {
	assert.True(t, dec("10").Equal(pricing.ApplyDiscount(dec("10"), dec("30"))))
	assert.True(t, dec("5").Equal(pricing.ApplyDiscount(dec("10"), dec("5"))))
	assert.True(t, pricing.ApplyDiscount(dec("10"), dec("-1")).IsZero())
}

func TestMatches_FechaFinVencidaNuncaAplica(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	for _, active := range []bool{true, false} {
		p := promo(entity.DiscountPercentage, "10")
		p.Active = active
		p.EndDate = &past
		assert.False(t, pricing.Matches(p, now))
	}
}

func TestMatches_Ventanas(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	zero := 0
	one := 1

	p := promo(entity.DiscountFixed, "5")
	p.StartDate = &future
	assert.False(t, pricing.Matches(p, now), "aún no inicia")

	p = promo(entity.DiscountFixed, "5")
	p.StartDate, p.EndDate = &past, &future
	assert.True(t, pricing.Matches(p, now))

	p = promo(entity.DiscountFixed, "5")
	p.MaxUsage = &zero
	assert.False(t, pricing.Matches(p, now), "sin cupo")

	p.MaxUsage = &one
	assert.True(t, pricing.Matches(p, now))

	p.Active = false
	assert.False(t, pricing.Matches(p, now))
}

func TestSubtotal_UsaPrecioCrudo(t *testing.T) {
	items := []entity.CartItem{
		{ProductID: "a", Price: dec("12.50"), Quantity: 2, Discount: dec("50")},
		{ProductID: "b", Price: dec("3.10"), Quantity: 3},
	}
	assert.True(t, dec("34.30").Equal(pricing.Subtotal(items)))
	assert.True(t, pricing.Subtotal(nil).IsZero())
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "AHORRA10", pricing.NormalizeCode("  ahorra10 "))
}

func TestShippingCost(t *testing.T) {
	flat := dec("5")
	assert.True(t, flat.Equal(pricing.ShippingCost(flat, nil)))
	assert.True(t, pricing.ShippingCost(flat, promo(entity.DiscountFreeShipping, "0")).IsZero())
	assert.True(t, flat.Equal(pricing.ShippingCost(flat, promo(entity.DiscountFixed, "1"))))
}
