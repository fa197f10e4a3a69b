package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.GuestCartStore = (*GuestCartStore)(nil)

// GuestCartStore carritos de invitado como JSON bajo "cart:guest:<id>", con TTL renovado en cada Save.
type GuestCartStore struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

// NewGuestCartStore ttl <= 0 guarda sin expiración.
func NewGuestCartStore(rdb goredis.Cmdable, ttl time.Duration) *GuestCartStore {
	return &GuestCartStore{rdb: rdb, ttl: ttl}
}

func guestKey(guestID string) string { return "cart:guest:" + guestID }

// Get devuelve un carrito vacío si la clave no existe o expiró.
func (s *GuestCartStore) Get(ctx context.Context, guestID string) ([]entity.CartItem, error) {
	raw, err := s.rdb.Get(ctx, guestKey(guestID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return []entity.CartItem{}, nil
		}
		return nil, fmt.Errorf("redis get guest cart: %w", err)
	}
	items := []entity.CartItem{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode guest cart: %w", err)
	}
	return items, nil
}

func (s *GuestCartStore) Save(ctx context.Context, guestID string, items []entity.CartItem) error {
	if items == nil {
		items = []entity.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode guest cart: %w", err)
	}
	if err := s.rdb.Set(ctx, guestKey(guestID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set guest cart: %w", err)
	}
	return nil
}

func (s *GuestCartStore) Delete(ctx context.Context, guestID string) error {
	if err := s.rdb.Del(ctx, guestKey(guestID)).Err(); err != nil {
		return fmt.Errorf("redis del guest cart: %w", err)
	}
	return nil
}
