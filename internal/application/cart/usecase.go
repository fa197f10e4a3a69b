// Package cart carrito del cliente: el servidor es la fuente de verdad cuando hay identidad;
// el carrito de invitado es un respaldo temporal que se fusiona al iniciar sesión.
package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/promotion"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/pricing"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// Identity a quién pertenece el carrito. UserID tiene prioridad sobre GuestID.
type Identity struct {
	UserID  string
	GuestID string
}

// UseCase lectura, reemplazo y fusión de carritos.
type UseCase struct {
	carts    repository.CartRepository
	guests   repository.GuestCartStore
	resolver *promotion.Resolver
}

// NewUseCase construye el caso de uso.
func NewUseCase(carts repository.CartRepository, guests repository.GuestCartStore, resolver *promotion.Resolver) *UseCase {
	return &UseCase{carts: carts, guests: guests, resolver: resolver}
}

func (uc *UseCase) load(ctx context.Context, id Identity) ([]entity.CartItem, error) {
	switch {
	case id.UserID != "":
		return uc.carts.Get(ctx, id.UserID)
	case id.GuestID != "":
		return uc.guests.Get(ctx, id.GuestID)
	}
	return nil, domain.ErrUnauthorized
}

// Get devuelve el carrito con su subtotal y el descuento del código (0 si no aplica).
// Sin identidad → ErrUnauthorized; usuario inexistente → ErrUserNotFound.
func (uc *UseCase) Get(ctx context.Context, id Identity, code string) (*dto.CartResponse, error) {
	items, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.summarize(ctx, items, code), nil
}

// Replace sustituye el carrito completo. No verifica stock.
func (uc *UseCase) Replace(ctx context.Context, id Identity, in []dto.CartItemDTO) error {
	items := make([]entity.CartItem, 0, len(in))
	for i, it := range in {
		if it.Quantity < 1 {
			return domain.NewValidationError(fmt.Sprintf("cart[%d].quantity", i), "debe ser mayor o igual a 1")
		}
		items = append(items, entity.CartItem(it))
	}
	switch {
	case id.UserID != "":
		return uc.carts.Replace(ctx, id.UserID, items)
	case id.GuestID != "":
		return uc.guests.Save(ctx, id.GuestID, items)
	}
	return domain.ErrUnauthorized
}

// Merge suma el carrito de invitado al del usuario y borra el de invitado.
// Por producto se suman cantidades; si el producto ya estaba, se conserva la instantánea del servidor.
func (uc *UseCase) Merge(ctx context.Context, userID, guestID string) (*dto.CartResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	server, err := uc.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	guest, err := uc.guests.Get(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("carrito invitado: %w", err)
	}
	merged := MergeItems(server, guest)
	if len(guest) > 0 {
		if err := uc.carts.Replace(ctx, userID, merged); err != nil {
			return nil, err
		}
	}
	if err := uc.guests.Delete(ctx, guestID); err != nil {
		return nil, fmt.Errorf("borrar carrito invitado: %w", err)
	}
	return uc.summarize(ctx, merged, ""), nil
}

// MergeItems fusiona dos carritos conservando el orden de server y agregando al final lo nuevo de guest.
func MergeItems(server, guest []entity.CartItem) []entity.CartItem {
	out := make([]entity.CartItem, 0, len(server)+len(guest))
	pos := make(map[string]int, len(server))
	for _, it := range server {
		if i, ok := pos[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ProductID] = len(out)
		out = append(out, it)
	}
	for _, it := range guest {
		if i, ok := pos[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

func (uc *UseCase) summarize(ctx context.Context, items []entity.CartItem, code string) *dto.CartResponse {
	subtotal := pricing.Subtotal(items)
	discount := decimal.Zero
	if res, ok := uc.resolver.Resolve(ctx, code, subtotal); ok {
		discount = res.Discount
	}
	out := make([]dto.CartItemDTO, len(items))
	for i, it := range items {
		out[i] = dto.CartItemDTO(it)
	}
	return &dto.CartResponse{Cart: out, Subtotal: subtotal, Discount: discount}
}
