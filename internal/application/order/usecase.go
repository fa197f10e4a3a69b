// Package order ciclo de vida de las órdenes: checkout, transiciones de estado y lecturas.
package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/application/promotion"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/policy"
	"github.com/jhoicas/ferreteria-api/internal/domain/pricing"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// Actor quién ejecuta la operación; el rol decide si ve todas las órdenes o solo las propias.
type Actor struct {
	UserID string
	Role   string
}

// Config parámetros de negocio.
type Config struct {
	ShippingFlatCost decimal.Decimal
	StoreName        string
}

// UseCase orquesta órdenes. Todas las escrituras pasan por OrderTxRunner.
type UseCase struct {
	tx        ports.OrderTxRunner
	orders    repository.OrderRepository
	users     repository.UserRepository
	addresses repository.AddressRepository
	resolver  *promotion.Resolver
	kicker    ports.Kicker
	metrics   ports.OrderMetrics
	receipts  ports.ReceiptRenderer
	log       *logger.Logger
	cfg       Config
	now       func() time.Time
}

// Deps dependencias del caso de uso. Kicker, Metrics y Receipts son opcionales.
type Deps struct {
	Tx        ports.OrderTxRunner
	Orders    repository.OrderRepository
	Users     repository.UserRepository
	Addresses repository.AddressRepository
	Resolver  *promotion.Resolver
	Kicker    ports.Kicker
	Metrics   ports.OrderMetrics
	Receipts  ports.ReceiptRenderer
	Log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps, cfg Config) *UseCase {
	uc := &UseCase{
		tx:        d.Tx,
		orders:    d.Orders,
		users:     d.Users,
		addresses: d.Addresses,
		resolver:  d.Resolver,
		kicker:    d.Kicker,
		metrics:   d.Metrics,
		receipts:  d.Receipts,
		log:       d.Log,
		cfg:       cfg,
		now:       time.Now,
	}
	if uc.metrics == nil {
		uc.metrics = ports.NopOrderMetrics{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

// NewOrderNumber número legible ORD-AAAAMMDD-XXXXXX.
func NewOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", t.Format("20060102"), suffix)
}

// Create checkout. En una sola transacción: inserta la orden y sus líneas, descuenta stock
// (sin bajar de cero), y consume el cupón. Los montos se calculan aquí; in.Total se ignora.
//
// Subtotal es Σ(precio final × cantidad). El descuento del cupón se calcula sobre Σ(precio de
// lista × cantidad), igual que la vista previa del carrito, y se acota al subtotal:
// Total = Subtotal − Discount + ShippingCost. Un cupón inválido, vencido o agotado no
// rechaza la compra: la orden sigue sin descuento y sin registrar el código.
// Líneas repetidas del mismo producto se fusionan sumando cantidades.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("crear orden: usuario: %w", err)
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la orden debe tener al menos un producto")
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.NewValidationError("paymentMethod", "debe ser MOBILE_PAYMENT, TRANSFER o CASH")
	}
	for i, it := range in.Items {
		if it.Quantity < 1 {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor o igual a 1")
		}
	}
	lines := mergeLines(in.Items)
	addr, err := uc.addresses.GetByID(ctx, in.ShippingAddressID)
	if err != nil {
		return nil, fmt.Errorf("crear orden: dirección: %w", err)
	}
	if addr == nil || addr.UserID != userID {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	order := &entity.Order{
		ID:               uuid.New().String(),
		OrderNumber:      NewOrderNumber(now),
		UserID:           userID,
		AddressID:        addr.ID,
		Status:           entity.OrderStatusPending,
		PaymentStatus:    entity.PaymentStatusPending,
		PaymentMethod:    in.PaymentMethod,
		PaymentReference: strings.TrimSpace(in.PaymentReference),
		ItemsCount:       len(lines),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	var items []*entity.OrderItem

	err = uc.tx.RunOrder(ctx, func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
		promotions repository.PromotionRepository,
		_ repository.OutboxRepository,
	) error {
		items = make([]*entity.OrderItem, 0, len(lines))
		subtotal, listSubtotal := decimal.Zero, decimal.Zero
		for i, it := range lines {
			p, err := products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil || !p.Active {
				return domain.NewValidationError(fmt.Sprintf("items[%d].productId", i), "producto no disponible")
			}
			qty := decimal.NewFromInt(int64(it.Quantity))
			unit := p.EffectivePrice()
			line := unit.Mul(qty)
			subtotal = subtotal.Add(line)
			listSubtotal = listSubtotal.Add(p.Price.Mul(qty))
			items = append(items, &entity.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     order.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				UnitPrice:   unit,
				Discount:    p.DiscountPercent,
				Subtotal:    line,
			})
		}

		var promo *entity.Promotion
		discount := decimal.Zero
		if code := pricing.NormalizeCode(in.CouponCode); code != "" {
			res, ok := uc.resolver.ResolveIn(ctx, promotions, code, listSubtotal)
			if ok {
				err := promotions.ConsumeUsage(ctx, code)
				switch {
				case err == nil:
					promo = res.Promotion
					discount = pricing.ApplyDiscount(subtotal, res.Discount)
					order.CouponCode = code
				case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNotFound):
					ok = false
				default:
					return err
				}
			}
			if !ok {
				uc.log.Info().Str("code", code).Str("user_id", userID).Msg("cupón no aplicable; la orden sigue sin descuento")
			}
		}

		order.Subtotal = subtotal
		order.Discount = discount
		order.ShippingCost = pricing.ShippingCost(uc.cfg.ShippingFlatCost, promo)
		order.Total = subtotal.Sub(discount).Add(order.ShippingCost)

		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		for _, item := range items {
			if err := orders.CreateItem(ctx, item); err != nil {
				return err
			}
			if err := products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, item.ProductName)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.metrics.OrderRejected(rejectReason(err))
		return nil, err
	}
	uc.metrics.OrderCreated(order.PaymentMethod)
	uc.log.Info().Str("order", order.OrderNumber).Str("user_id", userID).Str("total", order.Total.StringFixed(2)).Msg("orden creada")
	return toOrderResponse(order, items), nil
}

// mergeLines agrupa por producto conservando el orden de la primera aparición.
func mergeLines(items []dto.OrderItemRequest) []dto.OrderItemRequest {
	pos := make(map[string]int, len(items))
	out := make([]dto.OrderItemRequest, 0, len(items))
	for _, it := range items {
		if i, ok := pos[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "stock"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	}
	return "error"
}

// Update cambia status y/o paymentStatus respetando la tabla de transiciones.
// En la misma transacción agrega una fila de historial y encola la notificación al cliente.
func (uc *UseCase) Update(ctx context.Context, orderID string, in dto.UpdateOrderRequest, actor Actor) (*dto.OrderResponse, error) {
	if !policy.Allow(actor.Role, policy.ActionOrdersUpdateStatus) {
		return nil, domain.ErrForbidden
	}
	if in.Status == nil && in.PaymentStatus == nil {
		return nil, domain.NewValidationError("status", "se requiere status o paymentStatus")
	}
	if in.Status != nil && !entity.ValidOrderStatus(*in.Status) {
		return nil, domain.NewValidationError("status", "valor no permitido")
	}
	if in.PaymentStatus != nil && !entity.ValidPaymentStatus(*in.PaymentStatus) {
		return nil, domain.NewValidationError("paymentStatus", "valor no permitido")
	}

	var (
		order          *entity.Order
		statusChanged  bool
		paymentChanged bool
	)
	err := uc.tx.RunOrder(ctx, func(
		orders repository.OrderRepository,
		_ repository.ProductRepository,
		_ repository.PromotionRepository,
		outbox repository.OutboxRepository,
	) error {
		var err error
		order, err = orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if in.Status != nil && !entity.CanTransitionStatus(order.Status, *in.Status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, order.Status, *in.Status)
		}
		if in.PaymentStatus != nil && !entity.CanTransitionPayment(order.PaymentStatus, *in.PaymentStatus) {
			return fmt.Errorf("%w: pago %s → %s", domain.ErrInvalidTransition, order.PaymentStatus, *in.PaymentStatus)
		}

		h := &entity.OrderHistory{ID: uuid.New().String(), OrderID: order.ID, ChangedBy: actor.UserID, CreatedAt: uc.now()}
		if in.Status != nil && *in.Status != order.Status {
			order.Status = *in.Status
			h.Status = in.Status
			statusChanged = true
		}
		if in.PaymentStatus != nil && *in.PaymentStatus != order.PaymentStatus {
			order.PaymentStatus = *in.PaymentStatus
			h.PaymentStatus = in.PaymentStatus
			paymentChanged = true
		}
		if !statusChanged && !paymentChanged {
			return nil
		}
		order.UpdatedAt = h.CreatedAt
		if err := orders.UpdateStatus(ctx, order.ID, order.Status, order.PaymentStatus, order.UpdatedAt); err != nil {
			return err
		}
		if err := orders.AppendHistory(ctx, h); err != nil {
			return err
		}
		return uc.enqueueNotification(ctx, outbox, order, statusChanged, paymentChanged)
	})
	if err != nil {
		return nil, err
	}
	if statusChanged {
		uc.metrics.OrderTransition("status", order.Status)
	}
	if paymentChanged {
		uc.metrics.OrderTransition("payment_status", order.PaymentStatus)
	}
	if (statusChanged || paymentChanged) && uc.kicker != nil {
		uc.kicker.Kick()
	}
	return toOrderResponse(order, nil), nil
}

// enqueueNotification si el dueño no tiene email resoluble la notificación se omite.
func (uc *UseCase) enqueueNotification(ctx context.Context, outbox repository.OutboxRepository, o *entity.Order, statusChanged, paymentChanged bool) error {
	owner, err := uc.users.GetByID(ctx, o.UserID)
	if err != nil {
		return err
	}
	if owner == nil || owner.Email == "" {
		uc.log.Debug().Str("order", o.OrderNumber).Msg("sin destinatario; no se notifica")
		return nil
	}
	payload, err := json.Marshal(entity.OrderStatusNotification{
		OrderID:            o.ID,
		OrderNumber:        o.OrderNumber,
		Email:              owner.Email,
		CustomerName:       owner.Name,
		Status:             o.Status,
		StatusLabel:        entity.StatusLabel(o.Status),
		PaymentStatus:      o.PaymentStatus,
		PaymentStatusLabel: entity.PaymentStatusLabel(o.PaymentStatus),
		StatusChanged:      statusChanged,
		PaymentChanged:     paymentChanged,
	})
	if err != nil {
		return err
	}
	return outbox.Enqueue(ctx, &entity.OutboxMessage{
		ID:        uuid.New().String(),
		Topic:     entity.TopicOrderStatusChanged,
		Payload:   payload,
		Status:    entity.OutboxPending,
		CreatedAt: uc.now(),
	})
}
