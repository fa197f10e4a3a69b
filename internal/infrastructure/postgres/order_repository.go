package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository  = (*OrderRepo)(nil)
	_ repository.OutboxRepository = (*OutboxRepo)(nil)
)

const orderColumns = `id, order_number, user_id, address_id, status, payment_status, payment_method,
	payment_reference, coupon_code, subtotal, discount, shipping_cost, total, items_count, created_at, updated_at`

// OrderRepo órdenes, líneas e historial de cambios.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador (pool o tx).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.AddressID, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.PaymentReference, &o.CouponCode, &o.Subtotal, &o.Discount, &o.ShippingCost, &o.Total, &o.ItemsCount,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]*entity.Order, error) {
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		o.ID, o.OrderNumber, o.UserID, o.AddressID, o.Status, o.PaymentStatus, o.PaymentMethod,
		o.PaymentReference, o.CouponCode, o.Subtotal, o.Discount, o.ShippingCost, o.Total, o.ItemsCount,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, discount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		it.ID, it.OrderID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.Discount, it.Subtotal)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetForUpdate bloquea la fila hasta el fin de la transacción; fuera de una tx equivale a GetByID.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, discount, subtotal
		FROM order_items WHERE order_id = $1 ORDER BY product_name`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Discount, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List más recientes primero, con filtros opcionales por usuario y estado.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	args = append(args, limitOrAll(f.Limit), f.Offset)
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, clause, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	list, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status, paymentStatus string, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE orders SET status = $2, payment_status = $3, updated_at = $4 WHERE id = $1`,
		id, status, paymentStatus, updatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) AppendHistory(ctx context.Context, h *entity.OrderHistory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_history (id, order_id, status, payment_status, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.OrderID, h.Status, h.PaymentStatus, h.ChangedBy, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order history: %w", err)
	}
	return nil
}

func (r *OrderRepo) ListHistory(ctx context.Context, orderID string) ([]*entity.OrderHistory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, status, payment_status, changed_by, created_at
		FROM order_history WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderHistory
	for rows.Next() {
		var h entity.OrderHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.PaymentStatus, &h.ChangedBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

// OutboxRepo cola transaccional de notificaciones.
type OutboxRepo struct {
	q Querier
}

// NewOutboxRepository construye el adaptador del outbox.
func NewOutboxRepository(q Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

func (r *OutboxRepo) Enqueue(ctx context.Context, m *entity.OutboxMessage) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO outbox (id, topic, payload, status, attempts, last_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Topic, []byte(m.Payload), m.Status, m.Attempts, m.LastError, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("enqueue outbox: %w", err)
	}
	return nil
}

// ClaimPending reserva el lote en una sola sentencia: el subselect bloquea las filas elegidas
// (SKIP LOCKED salta las de otro despachador) y el UPDATE deja locked_until antes de liberar el
// bloqueo, así que otra réplica ya no las ve hasta que la reserva vence.
func (r *OutboxRepo) ClaimPending(ctx context.Context, limit int, now time.Time, lease time.Duration) ([]*entity.OutboxMessage, error) {
	rows, err := r.q.Query(ctx, `
		UPDATE outbox SET locked_until = $2
		WHERE id IN (
			SELECT id FROM outbox
			WHERE status = $1 AND (locked_until IS NULL OR locked_until < $3)
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED)
		RETURNING id, topic, payload, status, attempts, last_error, created_at, dispatched_at, locked_until`,
		entity.OutboxPending, now.Add(lease), now, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("claim outbox: %w", err)
	}
	defer rows.Close()
	var list []*entity.OutboxMessage
	for rows.Next() {
		var (
			m       entity.OutboxMessage
			payload []byte
		)
		if err := rows.Scan(&m.ID, &m.Topic, &payload, &m.Status, &m.Attempts, &m.LastError,
			&m.CreatedAt, &m.DispatchedAt, &m.LockedUntil); err != nil {
			return nil, fmt.Errorf("scan outbox: %w", err)
		}
		m.Payload = payload
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("claim outbox: %w", err)
	}
	// RETURNING no respeta el ORDER BY del subselect.
	slices.SortFunc(list, func(a, b *entity.OutboxMessage) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return list, nil
}

func (r *OutboxRepo) MarkDispatched(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE outbox SET status = $2, attempts = attempts + 1, last_error = '', dispatched_at = $3,
			locked_until = NULL
		WHERE id = $1`, id, entity.OutboxDispatched, at)
	if err != nil {
		return fmt.Errorf("mark outbox dispatched: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkFailed registra el intento y libera la reserva; final=true lo saca de la cola.
func (r *OutboxRepo) MarkFailed(ctx context.Context, id, lastError string, final bool) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE outbox SET attempts = attempts + 1, last_error = $2, locked_until = NULL,
			status = CASE WHEN $3 THEN $4 ELSE status END
		WHERE id = $1`, id, lastError, final, entity.OutboxFailed)
	if err != nil {
		return fmt.Errorf("mark outbox failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
