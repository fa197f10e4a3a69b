package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.BankAccountRepository = (*BankAccountRepository)(nil)

// BankAccountRepository implementación en memoria de repository.BankAccountRepository.
type BankAccountRepository struct{ s *Store }

// NewBankAccountRepository construye el repositorio sobre el store.
func NewBankAccountRepository(s *Store) *BankAccountRepository { return &BankAccountRepository{s: s} }

func (r *BankAccountRepository) Create(_ context.Context, a *entity.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bankAccounts[a.ID] = clone(a)
	return nil
}

func (r *BankAccountRepository) GetByID(_ context.Context, id string) (*entity.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.bankAccounts[id]), nil
}

func (r *BankAccountRepository) List(_ context.Context, onlyActive bool) ([]*entity.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := sortedValues(r.s.bankAccounts, func(a, b *entity.BankAccount) int { return a.CreatedAt.Compare(b.CreatedAt) })
	if onlyActive {
		all = slices.DeleteFunc(all, func(a *entity.BankAccount) bool { return !a.Active })
	}
	return all, nil
}

func (r *BankAccountRepository) Update(_ context.Context, a *entity.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bankAccounts[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.bankAccounts[a.ID] = clone(a)
	return nil
}

func (r *BankAccountRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bankAccounts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.bankAccounts, id)
	return nil
}
