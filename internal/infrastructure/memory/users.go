package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.AddressRepository = (*AddressRepository)(nil)
	_ repository.CartRepository    = (*CartRepository)(nil)
)

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct{ s *Store }

// NewUserRepository construye el repositorio sobre el store.
func NewUserRepository(s *Store) *UserRepository { return &UserRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = clone(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.users[id]), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.users[u.ID] = clone(u)
	return nil
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*entity.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := sortedValues(r.s.users, func(a, b *entity.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return page(all, limit, offset), len(all), nil
}

// AddressRepository implementación en memoria de repository.AddressRepository.
type AddressRepository struct{ s *Store }

// NewAddressRepository construye el repositorio sobre el store.
func NewAddressRepository(s *Store) *AddressRepository { return &AddressRepository{s: s} }

func (r *AddressRepository) Create(_ context.Context, a *entity.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.addresses[a.ID] = clone(a)
	return nil
}

func (r *AddressRepository) GetByID(_ context.Context, id string) (*entity.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.addresses[id]), nil
}

func (r *AddressRepository) ListByUser(_ context.Context, userID string) ([]*entity.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := sortedValues(r.s.addresses, func(a, b *entity.Address) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return slices.DeleteFunc(all, func(a *entity.Address) bool { return a.UserID != userID }), nil
}

func (r *AddressRepository) Update(_ context.Context, a *entity.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.addresses[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.addresses[a.ID] = clone(a)
	return nil
}

func (r *AddressRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.addresses[id]; !ok {
		return domain.ErrNotFound
	}
	for _, o := range r.s.orders {
		if o.AddressID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.addresses, id)
	return nil
}

func (r *AddressRepository) ClearDefault(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.addresses {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

// CartRepository carrito por usuario en memoria.
type CartRepository struct{ s *Store }

// NewCartRepository construye el repositorio sobre el store.
func NewCartRepository(s *Store) *CartRepository { return &CartRepository{s: s} }

func (r *CartRepository) Get(_ context.Context, userID string) ([]entity.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	items := slices.Clone(r.s.carts[userID])
	if items == nil {
		items = []entity.CartItem{}
	}
	return items, nil
}

func (r *CartRepository) Replace(_ context.Context, userID string, items []entity.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.carts[userID] = slices.Clone(items)
	return nil
}
