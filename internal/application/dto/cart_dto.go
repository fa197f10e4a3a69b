package dto

import "github.com/shopspring/decimal"

// CartItemDTO línea del carrito tal como la envía el cliente.
type CartItemDTO struct {
	ProductID string          `json:"productId" validate:"required,uuid"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	Discount  decimal.Decimal `json:"discount"`
}

// ReplaceCartRequest reemplaza el carrito completo.
type ReplaceCartRequest struct {
	Cart []CartItemDTO `json:"cart" validate:"dive"`
}

// MergeCartRequest fusiona el carrito de invitado en el del usuario autenticado.
type MergeCartRequest struct {
	GuestID string `json:"guestId" validate:"required,max=64"`
}

// CartResponse carrito con subtotal y descuento del cupón (0 si el código no aplica).
type CartResponse struct {
	Cart     []CartItemDTO   `json:"cart"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
}
