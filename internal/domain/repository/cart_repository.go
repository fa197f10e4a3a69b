package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// CartRepository carrito persistido del usuario (columna users.cart). Replace sustituye la lista completa.
// Ambos métodos devuelven domain.ErrUserNotFound si el usuario no existe.
type CartRepository interface {
	Get(ctx context.Context, userID string) ([]entity.CartItem, error)
	Replace(ctx context.Context, userID string, items []entity.CartItem) error
}

// GuestCartStore almacén de carritos de invitados identificados por un guest id opaco.
// Get devuelve una lista vacía cuando no hay carrito.
type GuestCartStore interface {
	Get(ctx context.Context, guestID string) ([]entity.CartItem, error)
	Save(ctx context.Context, guestID string, items []entity.CartItem) error
	Delete(ctx context.Context, guestID string) error
}
