package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea pedida. El precio lo fija el catálogo, no el cliente.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// CreateOrderRequest checkout. Total se acepta por compatibilidad pero se recalcula en el servidor.
type CreateOrderRequest struct {
	Items             []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Total             decimal.Decimal    `json:"total"`
	ShippingAddressID string             `json:"shippingAddressId" validate:"required,uuid"`
	PaymentMethod     string             `json:"paymentMethod" validate:"required,oneof=MOBILE_PAYMENT TRANSFER CASH"`
	PaymentReference  string             `json:"paymentReference" validate:"max=100"`
	CouponCode        string             `json:"couponCode" validate:"max=40"`
}

// UpdateOrderRequest cambio de estado de despacho y/o pago. Al menos uno es obligatorio.
type UpdateOrderRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
}

// OrderFilterRequest parámetros de GET /orders.
type OrderFilterRequest struct {
	PageRequest
	Status string `query:"status"`
}

// OrderItemResponse línea de una orden.
type OrderItemResponse struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse cabecera de una orden; Items solo viene en el detalle.
type OrderResponse struct {
	ID                 string              `json:"id"`
	OrderNumber        string              `json:"orderNumber"`
	UserID             string              `json:"userId"`
	AddressID          string              `json:"shippingAddressId"`
	Status             string              `json:"status"`
	StatusLabel        string              `json:"statusLabel"`
	PaymentStatus      string              `json:"paymentStatus"`
	PaymentStatusLabel string              `json:"paymentStatusLabel"`
	PaymentMethod      string              `json:"paymentMethod"`
	PaymentReference   string              `json:"paymentReference"`
	CouponCode         string              `json:"couponCode,omitempty"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	Discount           decimal.Decimal     `json:"discount"`
	ShippingCost       decimal.Decimal     `json:"shippingCost"`
	Total              decimal.Decimal     `json:"total"`
	ItemsCount         int                 `json:"itemsCount"`
	Items              []OrderItemResponse `json:"items,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// OrderListResponse listado paginado de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// OrderHistoryResponse entrada del historial; solo trae el campo que cambió.
type OrderHistoryResponse struct {
	ID            string    `json:"id"`
	Status        *string   `json:"status,omitempty"`
	PaymentStatus *string   `json:"paymentStatus,omitempty"`
	ChangedBy     string    `json:"changedBy"`
	CreatedAt     time.Time `json:"createdAt"`
}
