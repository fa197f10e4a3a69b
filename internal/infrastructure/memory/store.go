// Package memory implementa los repositorios de dominio en memoria.
// Sirve como driver STORAGE_DRIVER=memory (demos sin base de datos) y como fake en los tests.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
// Los valores se guardan y se devuelven por copia para que el llamador no mute el estado.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex // serializa transacciones

	users        map[string]*entity.User
	carts        map[string][]entity.CartItem
	addresses    map[string]*entity.Address
	categories   map[string]*entity.Category
	products     map[string]*entity.Product
	promotions   map[string]*entity.Promotion
	orders       map[string]*entity.Order
	orderItems   map[string][]*entity.OrderItem
	history      map[string][]*entity.OrderHistory
	outbox       map[string]*entity.OutboxMessage
	outboxOrder  []string
	bankAccounts map[string]*entity.BankAccount
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:        map[string]*entity.User{},
		carts:        map[string][]entity.CartItem{},
		addresses:    map[string]*entity.Address{},
		categories:   map[string]*entity.Category{},
		products:     map[string]*entity.Product{},
		promotions:   map[string]*entity.Promotion{},
		orders:       map[string]*entity.Order{},
		orderItems:   map[string][]*entity.OrderItem{},
		history:      map[string][]*entity.OrderHistory{},
		outbox:       map[string]*entity.OutboxMessage{},
		bankAccounts: map[string]*entity.BankAccount{},
	}
}

// snapshot copia profunda del estado para restaurarlo si la transacción falla.
func (s *Store) snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Store{
		users:        cloneMap(s.users),
		carts:        cloneSlices(s.carts),
		addresses:    cloneMap(s.addresses),
		categories:   cloneMap(s.categories),
		products:     cloneMap(s.products),
		promotions:   cloneMap(s.promotions),
		orders:       cloneMap(s.orders),
		orderItems:   clonePtrSlices(s.orderItems),
		history:      clonePtrSlices(s.history),
		outbox:       cloneMap(s.outbox),
		outboxOrder:  slices.Clone(s.outboxOrder),
		bankAccounts: cloneMap(s.bankAccounts),
	}
}

func (s *Store) restore(from *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = from.users
	s.carts = from.carts
	s.addresses = from.addresses
	s.categories = from.categories
	s.products = from.products
	s.promotions = from.promotions
	s.orders = from.orders
	s.orderItems = from.orderItems
	s.history = from.history
	s.outbox = from.outbox
	s.outboxOrder = from.outboxOrder
	s.bankAccounts = from.bankAccounts
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		out[k] = clone(v)
	}
	return out
}

func cloneSlices[T any](m map[string][]T) map[string][]T {
	out := make(map[string][]T, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

func clonePtrSlices[T any](m map[string][]*T) map[string][]*T {
	out := make(map[string][]*T, len(m))
	for k, v := range m {
		cp := make([]*T, len(v))
		for i, e := range v {
			cp[i] = clone(e)
		}
		out[k] = cp
	}
	return out
}

// sortedValues copia los valores del mapa en el orden que define less.
func sortedValues[T any](m map[string]*T, less func(a, b *T) int) []*T {
	out := make([]*T, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, clone(m[k]))
	}
	slices.SortStableFunc(out, less)
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
