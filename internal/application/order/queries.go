package order

import (
	"context"
	"fmt"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/policy"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// List un cliente ve solo sus órdenes; el back-office ve todas y puede filtrar por estado.
func (uc *UseCase) List(ctx context.Context, actor Actor, in dto.OrderFilterRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	f := repository.OrderFilter{Status: in.Status, Limit: in.Limit, Offset: in.Offset}
	if !policy.Allow(actor.Role, policy.ActionOrdersReadAll) {
		f.UserID = actor.UserID
	}
	if f.Status != "" && !entity.ValidOrderStatus(f.Status) {
		return nil, domain.NewValidationError("status", "valor no permitido")
	}
	list, total, err := uc.orders.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes: %w", err)
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o, nil))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// visible una orden ajena se reporta como inexistente.
func (uc *UseCase) visible(ctx context.Context, actor Actor, id string) (*entity.Order, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.UserID != actor.UserID && !policy.Allow(actor.Role, policy.ActionOrdersReadAll) {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// Get detalle con líneas.
func (uc *UseCase) Get(ctx context.Context, actor Actor, id string) (*dto.OrderResponse, error) {
	o, err := uc.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.orders.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o, items), nil
}

// History historial de transiciones, del más antiguo al más reciente.
func (uc *UseCase) History(ctx context.Context, actor Actor, id string) ([]dto.OrderHistoryResponse, error) {
	o, err := uc.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	hs, err := uc.orders.ListHistory(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderHistoryResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, dto.OrderHistoryResponse{
			ID:            h.ID,
			Status:        h.Status,
			PaymentStatus: h.PaymentStatus,
			ChangedBy:     h.ChangedBy,
			CreatedAt:     h.CreatedAt,
		})
	}
	return out, nil
}

// Receipt comprobante PDF de la orden. Devuelve el número de orden para el nombre del archivo.
func (uc *UseCase) Receipt(ctx context.Context, actor Actor, id string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("comprobantes no configurados")
	}
	o, err := uc.visible(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	items, err := uc.orders.ListItems(ctx, o.ID)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.users.GetByID(ctx, o.UserID)
	if err != nil {
		return nil, "", err
	}
	addr, err := uc.addresses.GetByID(ctx, o.AddressID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.receipts.RenderOrderReceipt(ports.Receipt{
		StoreName: uc.cfg.StoreName,
		Order:     o,
		Items:     items,
		Customer:  customer,
		Address:   addr,
	})
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	return pdf, o.OrderNumber, nil
}

// ToOrderResponse mapea la orden; items nil deja el detalle vacío.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	return toOrderResponse(o, nil)
}

func toOrderResponse(o *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		UserID:             o.UserID,
		AddressID:          o.AddressID,
		Status:             o.Status,
		StatusLabel:        entity.StatusLabel(o.Status),
		PaymentStatus:      o.PaymentStatus,
		PaymentStatusLabel: entity.PaymentStatusLabel(o.PaymentStatus),
		PaymentMethod:      o.PaymentMethod,
		PaymentReference:   o.PaymentReference,
		CouponCode:         o.CouponCode,
		Subtotal:           o.Subtotal,
		Discount:           o.Discount,
		ShippingCost:       o.ShippingCost,
		Total:              o.Total,
		ItemsCount:         o.ItemsCount,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
