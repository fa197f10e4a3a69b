package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/cart"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/promotion"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*cart.UseCase, *memory.Repositories, *memory.GuestCartStore) {
	t.Helper()
	ctx := context.Background()
	repos := memory.New()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u1", Email: "u1@correo.com", Active: true}))
	require.NoError(t, repos.Promotions.Create(ctx, &entity.Promotion{
		ID: "pr1", Code: "AHORRA10", DiscountType: entity.DiscountPercentage, DiscountValue: dec("10"), Active: true,
	}))
	guests := memory.NewGuestCartStore(time.Hour)
	uc := cart.NewUseCase(repos.Carts, guests, promotion.NewResolver(repos.Promotions, logger.Nop()))
	return uc, repos, guests
}

func TestGet_SubtotalSobrePrecioCrudoYDescuento(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := setup(t)
	id := cart.Identity{UserID: "u1"}
	require.NoError(t, uc.Replace(ctx, id, []dto.CartItemDTO{
		{ProductID: "p1", Name: "Martillo", Price: dec("30.00"), Quantity: 2, Discount: dec("50")},
		{ProductID: "p2", Name: "Clavos", Price: dec("40.00"), Quantity: 1},
	}))

	out, err := uc.Get(ctx, id, "ahorra10")
	require.NoError(t, err)
	assert.Len(t, out.Cart, 2)
	assert.True(t, dec("100.00").Equal(out.Subtotal), "la rebaja por línea no afecta el subtotal del cupón")
	assert.True(t, dec("10.00").Equal(out.Discount))
}

func TestGet_CodigoInvalidoDescuentoCero(t *testing.T) {
	uc, _, _ := setup(t)
	out, err := uc.Get(context.Background(), cart.Identity{UserID: "u1"}, "NOEXISTE")
	require.NoError(t, err)
	assert.Empty(t, out.Cart)
	assert.True(t, out.Discount.IsZero())
}

func TestGet_SinIdentidadYUsuarioInexistente(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.Get(context.Background(), cart.Identity{}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = uc.Replace(context.Background(), cart.Identity{UserID: "fantasma"}, nil)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestReplace_CantidadCeroRechazada(t *testing.T) {
	uc, _, _ := setup(t)
	err := uc.Replace(context.Background(), cart.Identity{UserID: "u1"}, []dto.CartItemDTO{{ProductID: "p1", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMerge_SumaCantidadesYBorraInvitado(t *testing.T) {
	ctx := context.Background()
	uc, _, guests := setup(t)
	require.NoError(t, uc.Replace(ctx, cart.Identity{UserID: "u1"}, []dto.CartItemDTO{
		{ProductID: "p1", Name: "Martillo", Price: dec("30"), Quantity: 1},
	}))
	require.NoError(t, uc.Replace(ctx, cart.Identity{GuestID: "g1"}, []dto.CartItemDTO{
		{ProductID: "p1", Name: "Martillo viejo", Price: dec("25"), Quantity: 2},
		{ProductID: "p3", Name: "Cinta", Price: dec("5"), Quantity: 1},
	}))

	out, err := uc.Merge(ctx, "u1", "g1")
	require.NoError(t, err)
	require.Len(t, out.Cart, 2)
	assert.Equal(t, 3, out.Cart[0].Quantity)
	assert.Equal(t, "Martillo", out.Cart[0].Name, "gana la instantánea del servidor")
	assert.True(t, dec("95").Equal(out.Subtotal))

	left, err := guests.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, left)

	persisted, err := uc.Get(ctx, cart.Identity{UserID: "u1"}, "")
	require.NoError(t, err)
	assert.Len(t, persisted.Cart, 2)
}
