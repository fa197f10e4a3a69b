package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// OrderFilter criterios de listado de órdenes. UserID vacío = todas (back-office).
type OrderFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}

// OrderRepository puerto de persistencia para órdenes, sus líneas y su historial.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate obtiene la orden bloqueando la fila (SELECT FOR UPDATE) dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, int, error)
	UpdateStatus(ctx context.Context, id, status, paymentStatus string, updatedAt time.Time) error
	AppendHistory(ctx context.Context, h *entity.OrderHistory) error
	ListHistory(ctx context.Context, orderID string) ([]*entity.OrderHistory, error)
}

// OutboxRepository cola transaccional de notificaciones.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg *entity.OutboxMessage) error
	// ClaimPending reserva hasta limit mensajes PENDING sin reserva vigente hasta now+lease y los
	// devuelve en orden de llegada. Dos llamadas concurrentes nunca reciben el mismo mensaje.
	ClaimPending(ctx context.Context, limit int, now time.Time, lease time.Duration) ([]*entity.OutboxMessage, error)
	MarkDispatched(ctx context.Context, id string, at time.Time) error
	// MarkFailed registra el intento fallido; final=true lo saca de la cola (estado FAILED).
	MarkFailed(ctx context.Context, id, lastError string, final bool) error
}
