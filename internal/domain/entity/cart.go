package entity

import "github.com/shopspring/decimal"

// CartItem línea del carrito. Name, Price y Discount son instantáneas tomadas por el cliente
// al agregar el producto y pueden diferir del catálogo vigente.
type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}
