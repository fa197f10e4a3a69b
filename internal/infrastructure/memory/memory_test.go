package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
)

func TestDecrementStock_NoBajaDeCero(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "MART-01", Stock: 3, Price: decimal.NewFromInt(10)}))

	require.NoError(t, repos.Products.DecrementStock(ctx, "p1", 2))
	err := repos.Products.DecrementStock(ctx, "p1", 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := repos.Products.GetByID(ctx, "p1")
	assert.Equal(t, 1, p.Stock)
}

func TestTxRunner_RollbackRestauraEstado(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "TAL-01", Stock: 5}))

	boom := errors.New("falla a mitad de la transacción")
	err := repos.Tx.RunOrder(ctx, func(orders repository.OrderRepository, products repository.ProductRepository, _ repository.PromotionRepository, _ repository.OutboxRepository) error {
		require.NoError(t, orders.Create(ctx, &entity.Order{ID: "o1", OrderNumber: "ORD-1"}))
		require.NoError(t, products.DecrementStock(ctx, "p1", 4))
		return boom
	})
	require.ErrorIs(t, err, boom)

	o, _ := repos.Orders.GetByID(ctx, "o1")
	assert.Nil(t, o)
	p, _ := repos.Products.GetByID(ctx, "p1")
	assert.Equal(t, 5, p.Stock)
}

func TestConsumeUsage_DescuentaCupo(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	one := 1
	require.NoError(t, repos.Promotions.Create(ctx, &entity.Promotion{ID: "pr1", Code: "UNAVEZ", MaxUsage: &one, Active: true}))

	require.NoError(t, repos.Promotions.ConsumeUsage(ctx, "UNAVEZ"))
	assert.ErrorIs(t, repos.Promotions.ConsumeUsage(ctx, "UNAVEZ"), domain.ErrConflict)

	p, _ := repos.Promotions.GetByCode(ctx, "UNAVEZ")
	assert.Equal(t, 0, *p.MaxUsage)
	assert.Equal(t, 1, p.UsageCount)
}

func TestOutboxClaimPending_ReservaYVencimiento(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, repos.Outbox.Enqueue(ctx, &entity.OutboxMessage{
			ID: id, Topic: entity.TopicOrderStatusChanged, Status: entity.OutboxPending, CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	first, err := repos.Outbox.ClaimPending(ctx, 2, now, time.Minute)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "m1", first[0].ID)

	second, err := repos.Outbox.ClaimPending(ctx, 10, now.Add(time.Second), time.Minute)
	require.NoError(t, err)
	require.Len(t, second, 1, "los reservados no se entregan a otro despachador")
	assert.Equal(t, "m3", second[0].ID)

	require.NoError(t, repos.Outbox.MarkFailed(ctx, "m3", "smtp", false))
	again, err := repos.Outbox.ClaimPending(ctx, 10, now.Add(2*time.Second), time.Minute)
	require.NoError(t, err)
	require.Len(t, again, 1, "un fallo no final libera la reserva")
	assert.Equal(t, "m3", again[0].ID)

	expired, err := repos.Outbox.ClaimPending(ctx, 10, now.Add(2*time.Minute), time.Minute)
	require.NoError(t, err)
	assert.Len(t, expired, 3, "reservas vencidas vuelven a estar disponibles")
}

func TestGuestCartStore_Expira(t *testing.T) {
	ctx := context.Background()
	g := memory.NewGuestCartStore(time.Nanosecond)
	require.NoError(t, g.Save(ctx, "g1", []entity.CartItem{{ProductID: "p1", Quantity: 1}}))
	time.Sleep(time.Millisecond)

	items, err := g.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartRepository_UsuarioInexistente(t *testing.T) {
	repos := memory.New()
	_, err := repos.Carts.Get(context.Background(), "nadie")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
