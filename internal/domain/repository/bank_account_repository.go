package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// BankAccountRepository puerto de persistencia para cuentas de cobro.
type BankAccountRepository interface {
	Create(ctx context.Context, a *entity.BankAccount) error
	GetByID(ctx context.Context, id string) (*entity.BankAccount, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.BankAccount, error)
	Update(ctx context.Context, a *entity.BankAccount) error
	Delete(ctx context.Context, id string) error
}
