package ports

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// AccountTxRunner ejecuta fn dentro de una transacción con los repos de cuenta atados a ella.
// Se usa en el registro con dirección y al marcar la dirección predeterminada.
type AccountTxRunner interface {
	RunAccount(ctx context.Context, fn func(
		users repository.UserRepository,
		addresses repository.AddressRepository,
	) error) error
}

// OrderTxRunner ejecuta fn dentro de una transacción que abarca orden, stock, cupones y outbox.
// Si fn devuelve error se hace rollback de todo.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
		promotions repository.PromotionRepository,
		outbox repository.OutboxRepository,
	) error) error
}
