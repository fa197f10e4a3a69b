package memory

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var (
	_ ports.AccountTxRunner = (*TxRunner)(nil)
	_ ports.OrderTxRunner   = (*TxRunner)(nil)
)

// TxRunner emula transacciones: serializa los callbacks y restaura una copia del estado si fn falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner con el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	before := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(before)
		return err
	}
	return nil
}

// RunAccount ejecuta fn con los repos de cuenta.
func (r *TxRunner) RunAccount(ctx context.Context, fn func(
	users repository.UserRepository,
	addresses repository.AddressRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(NewUserRepository(r.s), NewAddressRepository(r.s))
	})
}

// RunOrder ejecuta fn con los repos de orden, catálogo, cupones y outbox.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	promotions repository.PromotionRepository,
	outbox repository.OutboxRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(NewOrderRepository(r.s), NewProductRepository(r.s), NewPromotionRepository(r.s), NewOutboxRepository(r.s))
	})
}
