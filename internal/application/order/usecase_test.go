package order_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/order"
	"github.com/jhoicas/ferreteria-api/internal/application/promotion"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/pricing"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type kickCounter struct{ n int }

func (k *kickCounter) Kick() { k.n++ }

type fixture struct {
	uc     *order.UseCase
	repos  *memory.Repositories
	kicker *kickCounter
}

var admin = order.Actor{UserID: "admin", Role: entity.RoleAdmin}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.New()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u1", Name: "Luis", Email: "luis@correo.com", Role: entity.RoleCustomer, Active: true}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u2", Email: "otro@correo.com", Role: entity.RoleCustomer, Active: true}))
	require.NoError(t, repos.Addresses.Create(ctx, &entity.Address{ID: "a1", UserID: "u1", Line: "Calle 5", City: "Maturín", IsDefault: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "MAR-01", Name: "Martillo", Price: dec("20.00"), Stock: 10, Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "DES-01", Name: "Destornillador", Price: dec("10.00"), DiscountPercent: dec("10"), Stock: 5, Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p3", SKU: "SIE-01", Name: "Sierra", Price: dec("50.00"), Stock: 1, Active: true}))

	k := &kickCounter{}
	uc := order.NewUseCase(order.Deps{
		Tx:        repos.Tx,
		Orders:    repos.Orders,
		Users:     repos.Users,
		Addresses: repos.Addresses,
		Resolver:  promotion.NewResolver(repos.Promotions, logger.Nop()),
		Kicker:    k,
	}, order.Config{ShippingFlatCost: dec("3.00"), StoreName: "Ferretería"})
	return fixture{uc: uc, repos: repos, kicker: k}
}

func checkout(items ...dto.OrderItemRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Items:             items,
		Total:             dec("1.00"),
		ShippingAddressID: "a1",
		PaymentMethod:     entity.PaymentMethodMobile,
		PaymentReference:  "0123456",
	}
}

func TestCreate_NLineasNItemsYDescuentaStock(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	out, err := f.uc.Create(ctx, "u1", checkout(
		dto.OrderItemRequest{ProductID: "p1", Quantity: 2},
		dto.OrderItemRequest{ProductID: "p2", Quantity: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.Equal(t, entity.PaymentStatusPending, out.PaymentStatus)
	assert.Equal(t, 2, out.ItemsCount)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{6}$`, out.OrderNumber)

	items, err := f.repos.Orders.ListItems(ctx, out.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	p1, _ := f.repos.Products.GetByID(ctx, "p1")
	p2, _ := f.repos.Products.GetByID(ctx, "p2")
	assert.Equal(t, 8, p1.Stock)
	assert.Equal(t, 2, p2.Stock)

	hist, err := f.repos.Orders.ListHistory(ctx, out.ID)
	require.NoError(t, err)
	assert.Empty(t, hist, "crear no agrega historial")
}

func TestCreate_TotalCalculadoEnServidor(t *testing.T) {
	f := setup(t)
	out, err := f.uc.Create(context.Background(), "u1", checkout(
		dto.OrderItemRequest{ProductID: "p1", Quantity: 2},
		dto.OrderItemRequest{ProductID: "p2", Quantity: 3},
	))
	require.NoError(t, err)
	// 2×20 + 3×9 (10% de rebaja) = 67; + envío 3
	assert.True(t, dec("67.00").Equal(out.Subtotal))
	assert.True(t, dec("3.00").Equal(out.ShippingCost))
	assert.True(t, dec("70.00").Equal(out.Total), "el total del cliente se ignora")
}

func TestCreate_StockInsuficienteRevierteTodo(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.uc.Create(ctx, "u1", checkout(
		dto.OrderItemRequest{ProductID: "p1", Quantity: 1},
		dto.OrderItemRequest{ProductID: "p3", Quantity: 2},
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p1, _ := f.repos.Products.GetByID(ctx, "p1")
	assert.Equal(t, 10, p1.Stock, "el descuento de la primera línea se revierte")
	list, _, _ := f.repos.Orders.List(ctx, repository.OrderFilter{})
	assert.Empty(t, list)
}

func TestCreate_CuponSeConsumeYEnvioGratis(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	two := 2
	require.NoError(t, f.repos.Promotions.Create(ctx, &entity.Promotion{ID: "pr1", Code: "ENVIOGRATIS", DiscountType: entity.DiscountFreeShipping, MaxUsage: &two, Active: true}))

	req := checkout(dto.OrderItemRequest{ProductID: "p1", Quantity: 1})
	req.CouponCode = "enviogratis"
	out, err := f.uc.Create(ctx, "u1", req)
	require.NoError(t, err)
	assert.True(t, out.ShippingCost.IsZero())
	assert.True(t, dec("20.00").Equal(out.Total))
	assert.Equal(t, "ENVIOGRATIS", out.CouponCode)

	p, _ := f.repos.Promotions.GetByCode(ctx, "ENVIOGRATIS")
	assert.Equal(t, 1, *p.MaxUsage)
	assert.Equal(t, 1, p.UsageCount)
}

func TestCreate_DescuentoFijoNoDejaTotalNegativo(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.repos.Promotions.Create(ctx, &entity.Promotion{ID: "pr1", Code: "MENOS100", DiscountType: entity.DiscountFixed, DiscountValue: dec("100"), Active: true}))

	req := checkout(dto.OrderItemRequest{ProductID: "p1", Quantity: 1})
	req.CouponCode = "MENOS100"
	out, err := f.uc.Create(ctx, "u1", req)
	require.NoError(t, err)
	assert.True(t, dec("20.00").Equal(out.Discount))
	assert.True(t, dec("3.00").Equal(out.Total))
}

func TestCreate_CuponInvalidoSigueSinDescuento(t *testing.T) {
	f := setup(t)
	req := checkout(dto.OrderItemRequest{ProductID: "p1", Quantity: 1})
	req.CouponCode = "NOEXISTE"
	out, err := f.uc.Create(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.True(t, out.Discount.IsZero())
	assert.Empty(t, out.CouponCode)
	assert.True(t, dec("23.00").Equal(out.Total))
}

func TestCreate_CuponAgotadoNoSeRegistra(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	zero := 0
	require.NoError(t, f.repos.Promotions.Create(ctx, &entity.Promotion{ID: "pr1", Code: "AGOTADO", DiscountType: entity.DiscountFixed, DiscountValue: dec("5"), MaxUsage: &zero, Active: true}))

	req := checkout(dto.OrderItemRequest{ProductID: "p1", Quantity: 1})
	req.CouponCode = "agotado"
	out, err := f.uc.Create(ctx, "u1", req)
	require.NoError(t, err)
	assert.True(t, out.Discount.IsZero())
	assert.Empty(t, out.CouponCode)

	p, _ := f.repos.Promotions.GetByCode(ctx, "AGOTADO")
	assert.Equal(t, 0, p.UsageCount)
}

func TestCreate_DescuentoDelCuponIgualAlDelCarrito(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	require.NoError(t, f.repos.Promotions.Create(ctx, &entity.Promotion{ID: "pr1", Code: "AHORRA10", DiscountType: entity.DiscountPercentage, DiscountValue: dec("10"), Active: true}))
	cartItems := []entity.CartItem{{ProductID: "p2", Name: "Destornillador", Price: dec("10.00"), Quantity: 5, Discount: dec("10")}}
	resolver := promotion.NewResolver(f.repos.Promotions, logger.Nop())
	preview, ok := resolver.Resolve(ctx, "AHORRA10", pricing.Subtotal(cartItems))
	require.True(t, ok)

	req := checkout(dto.OrderItemRequest{ProductID: "p2", Quantity: 5})
	req.CouponCode = "AHORRA10"
	out, err := f.uc.Create(ctx, "u1", req)
	require.NoError(t, err)
	// 5×9 con la rebaja por línea; el 10% del cupón se calcula sobre 5×10.
	assert.True(t, dec("45.00").Equal(out.Subtotal))
	assert.True(t, preview.Discount.Equal(out.Discount), "vista previa %s, orden %s", preview.Discount, out.Discount)
	assert.True(t, dec("5.00").Equal(out.Discount))
	assert.True(t, dec("43.00").Equal(out.Total))
}

func TestCreate_LineasRepetidasSeFusionan(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	out, err := f.uc.Create(ctx, "u1", checkout(
		dto.OrderItemRequest{ProductID: "p1", Quantity: 2},
		dto.OrderItemRequest{ProductID: "p2", Quantity: 1},
		dto.OrderItemRequest{ProductID: "p1", Quantity: 3},
	))
	require.NoError(t, err)
	assert.Equal(t, 2, out.ItemsCount)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "p1", out.Items[0].ProductID)
	assert.Equal(t, 5, out.Items[0].Quantity)
	assert.True(t, dec("100.00").Equal(out.Items[0].Subtotal))

	p1, _ := f.repos.Products.GetByID(ctx, "p1")
	assert.Equal(t, 5, p1.Stock)
}

func TestCreate_LineasFusionadasRespetanStock(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.uc.Create(ctx, "u1", checkout(
		dto.OrderItemRequest{ProductID: "p3", Quantity: 1},
		dto.OrderItemRequest{ProductID: "p3", Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p3, _ := f.repos.Products.GetByID(ctx, "p3")
	assert.Equal(t, 1, p3.Stock)
}

func TestCreate_UsuarioInexistenteYDireccionAjena(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	_, err := f.uc.Create(ctx, "fantasma", checkout(dto.OrderItemRequest{ProductID: "p1", Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Create(ctx, "u2", checkout(dto.OrderItemRequest{ProductID: "p1", Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func ptr(s string) *string { return &s }

func newOrder(t *testing.T, f fixture) string {
	t.Helper()
	out, err := f.uc.Create(context.Background(), "u1", checkout(dto.OrderItemRequest{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)
	return out.ID
}

func TestUpdate_SoloPagoNoCambiaStatusYUnaFilaDeHistorial(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	id := newOrder(t, f)

	out, err := f.uc.Update(ctx, id, dto.UpdateOrderRequest{PaymentStatus: ptr(entity.PaymentStatusPaid)}, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.Equal(t, entity.PaymentStatusPaid, out.PaymentStatus)

	hist, err := f.repos.Orders.ListHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Nil(t, hist[0].Status)
	require.NotNil(t, hist[0].PaymentStatus)
	assert.Equal(t, entity.PaymentStatusPaid, *hist[0].PaymentStatus)
	assert.Equal(t, "admin", hist[0].ChangedBy)
}

func TestUpdate_PendienteAEnviadoPermitido(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	id := newOrder(t, f)

	out, err := f.uc.Update(ctx, id, dto.UpdateOrderRequest{Status: ptr(entity.OrderStatusShipped)}, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, out.Status)
	assert.Equal(t, "Enviado", out.StatusLabel)

	hist, _ := f.repos.Orders.ListHistory(ctx, id)
	require.Len(t, hist, 1)
	assert.Equal(t, entity.OrderStatusShipped, *hist[0].Status)
	assert.Nil(t, hist[0].PaymentStatus)
}

func TestUpdate_EncolaNotificacionYDespiertaDespachador(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	id := newOrder(t, f)

	_, err := f.uc.Update(ctx, id, dto.UpdateOrderRequest{Status: ptr(entity.OrderStatusProcessing)}, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, f.kicker.n)

	msgs := f.repos.Outbox.Messages()
	require.Len(t, msgs, 1)
	var payload entity.OrderStatusNotification
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, "luis@correo.com", payload.Email)
	assert.Equal(t, "En preparación", payload.StatusLabel)
	assert.True(t, payload.StatusChanged)
	assert.False(t, payload.PaymentChanged)
}

func TestUpdate_TransicionesInvalidas(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	id := newOrder(t, f)

	_, err := f.uc.Update(ctx, id, dto.UpdateOrderRequest{Status: ptr(entity.OrderStatusDelivered)}, admin)
	require.NoError(t, err)
	_, err = f.uc.Update(ctx, id, dto.UpdateOrderRequest{Status: ptr(entity.OrderStatusPending)}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.Update(ctx, id, dto.UpdateOrderRequest{Status: ptr(entity.OrderStatusCancelled)}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	hist, _ := f.repos.Orders.ListHistory(ctx, id)
	assert.Len(t, hist, 1, "los rechazos no agregan historial")
}

func TestUpdate_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	id := newOrder(t, f)

	_, err := f.uc.Update(ctx, id, dto.UpdateOrderRequest{}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Update(ctx, id, dto.UpdateOrderRequest{Status: ptr("LOST")}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Update(ctx, id, dto.UpdateOrderRequest{Status: ptr(entity.OrderStatusShipped)}, order.Actor{UserID: "u1", Role: entity.RoleCustomer})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Update(ctx, "no-existe", dto.UpdateOrderRequest{Status: ptr(entity.OrderStatusShipped)}, admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLecturas_ClienteSoloVeLoPropio(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	id := newOrder(t, f)
	owner := order.Actor{UserID: "u1", Role: entity.RoleCustomer}
	stranger := order.Actor{UserID: "u2", Role: entity.RoleCustomer}

	got, err := f.uc.Get(ctx, owner, id)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = f.uc.Get(ctx, stranger, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mine, err := f.uc.List(ctx, stranger, dto.OrderFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, mine.Items)

	all, err := f.uc.List(ctx, admin, dto.OrderFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, all.Page.Total)
}
