package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.GuestCartStore = (*GuestCartStore)(nil)

type guestEntry struct {
	items   []entity.CartItem
	expires time.Time
}

// GuestCartStore carritos de invitado en proceso con expiración perezosa.
// Se usa cuando no hay Redis configurado.
type GuestCartStore struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]guestEntry
	now func() time.Time
}

// NewGuestCartStore crea el store; ttl <= 0 significa sin expiración.
func NewGuestCartStore(ttl time.Duration) *GuestCartStore {
	return &GuestCartStore{ttl: ttl, m: map[string]guestEntry{}, now: time.Now}
}

func (g *GuestCartStore) Get(_ context.Context, guestID string) ([]entity.CartItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.m[guestID]
	if !ok {
		return []entity.CartItem{}, nil
	}
	if !e.expires.IsZero() && g.now().After(e.expires) {
		delete(g.m, guestID)
		return []entity.CartItem{}, nil
	}
	return slices.Clone(e.items), nil
}

func (g *GuestCartStore) Save(_ context.Context, guestID string, items []entity.CartItem) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	e := guestEntry{items: slices.Clone(items)}
	if g.ttl > 0 {
		e.expires = g.now().Add(g.ttl)
	}
	g.m[guestID] = e
	return nil
}

func (g *GuestCartStore) Delete(_ context.Context, guestID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.m, guestID)
	return nil
}
