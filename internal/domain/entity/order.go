package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de despacho de una orden.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// Estados de pago, independientes del estado de despacho.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// Métodos de pago aceptados al crear una orden.
const (
	PaymentMethodMobile   = "MOBILE_PAYMENT"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCash     = "CASH"
)

// Order cabecera de una compra. Los montos se calculan en el servidor al crearla.
type Order struct {
	ID               string
	OrderNumber      string // legible, ej: ORD-20261015-7F3A9C
	UserID           string
	AddressID        string
	Status           string
	PaymentStatus    string
	PaymentMethod    string
	PaymentReference string
	CouponCode       string
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	ShippingCost     decimal.Decimal
	Total            decimal.Decimal
	ItemsCount       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem línea de una orden con el precio unitario vigente al momento de la compra.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // porcentaje de rebaja del producto aplicado a UnitPrice
	Subtotal    decimal.Decimal
}

// OrderHistory registro de auditoría append-only. Solo se llenan los campos que cambiaron.
type OrderHistory struct {
	ID            string
	OrderID       string
	Status        *string
	PaymentStatus *string
	ChangedBy     string
	CreatedAt     time.Time
}

var statusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// ValidOrderStatus indica si el estado pertenece a la enumeración.
func ValidOrderStatus(s string) bool {
	_, ok := statusRank[s]
	return ok || s == OrderStatusCancelled
}

// ValidPaymentStatus indica si el estado de pago pertenece a la enumeración.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// ValidPaymentMethod indica si el método de pago es aceptado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodMobile, PaymentMethodTransfer, PaymentMethodCash:
		return true
	}
	return false
}

// IsTerminalStatus DELIVERED y CANCELLED no admiten más cambios de despacho.
func IsTerminalStatus(s string) bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionStatus tabla de transiciones de despacho: solo hacia adelante (se permiten saltos),
// CANCELLED desde cualquier estado no terminal. Repetir el estado actual es válido.
func CanTransitionStatus(from, to string) bool {
	if from == to {
		return true
	}
	if IsTerminalStatus(from) {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	return okFrom && okTo && toRank > fromRank
}

// CanTransitionPayment PENDING→PAID|FAILED, FAILED→PAID|PENDING (reintento); PAID es terminal.
func CanTransitionPayment(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case PaymentStatusPending:
		return to == PaymentStatusPaid || to == PaymentStatusFailed
	case PaymentStatusFailed:
		return to == PaymentStatusPaid || to == PaymentStatusPending
	}
	return false
}

// StatusLabel etiqueta en español para correos y comprobantes.
func StatusLabel(s string) string {
	switch s {
	case OrderStatusPending:
		return "Pendiente"
	case OrderStatusProcessing:
		return "En preparación"
	case OrderStatusShipped:
		return "Enviado"
	case OrderStatusDelivered:
		return "Entregado"
	case OrderStatusCancelled:
		return "Cancelado"
	}
	return s
}

// PaymentStatusLabel etiqueta en español del estado de pago.
func PaymentStatusLabel(s string) string {
	switch s {
	case PaymentStatusPending:
		return "Pago pendiente"
	case PaymentStatusPaid:
		return "Pagado"
	case PaymentStatusFailed:
		return "Pago rechazado"
	}
	return s
}
