package memory

import (
	"context"
	"slices"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository  = (*OrderRepository)(nil)
	_ repository.OutboxRepository = (*OutboxRepository)(nil)
)

// OrderRepository implementación en memoria de repository.OrderRepository.
type OrderRepository struct{ s *Store }

// NewOrderRepository construye el repositorio sobre el store.
func NewOrderRepository(s *Store) *OrderRepository { return &OrderRepository{s: s} }

func (r *OrderRepository) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.orders[o.ID] = clone(o)
	return nil
}

func (r *OrderRepository) CreateItem(_ context.Context, it *entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[it.OrderID]; !ok {
		return domain.ErrNotFound
	}
	r.s.orderItems[it.OrderID] = append(r.s.orderItems[it.OrderID], clone(it))
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.orders[id]), nil
}

// GetForUpdate en memoria el bloqueo lo da la serialización de transacciones del TxRunner.
func (r *OrderRepository) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) ListItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.orderItems[orderID]
	out := make([]*entity.OrderItem, len(items))
	for i, it := range items {
		out[i] = clone(it)
	}
	return out, nil
}

func (r *OrderRepository) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := sortedValues(r.s.orders, newestFirst)
	all = slices.DeleteFunc(all, func(o *entity.Order) bool {
		return (f.UserID != "" && o.UserID != f.UserID) || (f.Status != "" && o.Status != f.Status)
	})
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id, status, paymentStatus string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.PaymentStatus = paymentStatus
	o.UpdatedAt = updatedAt
	return nil
}

func (r *OrderRepository) AppendHistory(_ context.Context, h *entity.OrderHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.history[h.OrderID] = append(r.s.history[h.OrderID], clone(h))
	return nil
}

func (r *OrderRepository) ListHistory(_ context.Context, orderID string) ([]*entity.OrderHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	hs := r.s.history[orderID]
	out := make([]*entity.OrderHistory, len(hs))
	for i, h := range hs {
		out[i] = clone(h)
	}
	return out, nil
}

func newestFirst(a, b *entity.Order) int { return b.CreatedAt.Compare(a.CreatedAt) }

// OutboxRepository cola de notificaciones en memoria, en orden de llegada.
type OutboxRepository struct{ s *Store }

// NewOutboxRepository construye el repositorio sobre el store.
func NewOutboxRepository(s *Store) *OutboxRepository { return &OutboxRepository{s: s} }

func (r *OutboxRepository) Enqueue(_ context.Context, m *entity.OutboxMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox[m.ID] = clone(m)
	r.s.outboxOrder = append(r.s.outboxOrder, m.ID)
	return nil
}

func (r *OutboxRepository) ClaimPending(_ context.Context, limit int, now time.Time, lease time.Duration) ([]*entity.OutboxMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	until := now.Add(lease)
	var out []*entity.OutboxMessage
	for _, id := range r.s.outboxOrder {
		m := r.s.outbox[id]
		if m == nil || m.Status != entity.OutboxPending {
			continue
		}
		if m.LockedUntil != nil && !m.LockedUntil.Before(now) {
			continue
		}
		m.LockedUntil = &until
		out = append(out, clone(m))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkDispatched(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.outbox[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Status = entity.OutboxDispatched
	m.Attempts++
	m.LastError = ""
	m.DispatchedAt = &at
	m.LockedUntil = nil
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, id, lastError string, final bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.outbox[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Attempts++
	m.LastError = lastError
	m.LockedUntil = nil
	if final {
		m.Status = entity.OutboxFailed
	}
	return nil
}

// Messages devuelve todos los mensajes del outbox (inspección en tests).
func (r *OutboxRepository) Messages() []*entity.OutboxMessage {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.OutboxMessage, 0, len(r.s.outboxOrder))
	for _, id := range r.s.outboxOrder {
		out = append(out, clone(r.s.outbox[id]))
	}
	return out
}
