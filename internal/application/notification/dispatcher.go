// Package notification despacha los mensajes del outbox fuera del camino crítico de las órdenes.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// Publisher entrega un mensaje del outbox (broker o correo directo).
type Publisher interface {
	Publish(ctx context.Context, msg *entity.OutboxMessage) error
}

// DefaultLease tiempo que un lote queda reservado para el despachador que lo tomó. Si el proceso
// muere antes de marcarlo, otra réplica lo retoma al vencer.
const DefaultLease = 5 * time.Minute

// Dispatcher reserva mensajes PENDING y los publica. Un fallo se reintenta en la siguiente pasada
// hasta maxAttempts; después el mensaje queda FAILED con el último error.
// Varias réplicas pueden correr a la vez: cada mensaje se reserva para un solo despachador.
type Dispatcher struct {
	outbox      repository.OutboxRepository
	pub         Publisher
	log         *logger.Logger
	maxAttempts int
	batchSize   int
	lease       time.Duration
	kick        chan struct{}
	now         func() time.Time
}

// NewDispatcher construye el despachador.
func NewDispatcher(outbox repository.OutboxRepository, pub Publisher, log *logger.Logger, maxAttempts, batchSize int) *Dispatcher {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Dispatcher{
		outbox:      outbox,
		pub:         pub,
		log:         log,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		lease:       DefaultLease,
		kick:        make(chan struct{}, 1),
		now:         time.Now,
	}
}

// Kick pide una pasada inmediata sin bloquear; varias llamadas seguidas se colapsan en una.
func (d *Dispatcher) Kick() {
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

// Run bucle de despacho: una pasada por tick o por Kick, hasta que ctx se cancele.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-d.kick:
		}
		if _, err := d.DispatchPending(ctx); err != nil && ctx.Err() == nil {
			d.log.Error().Err(err).Msg("despacho de notificaciones")
		}
	}
}

// DispatchPending publica un lote de mensajes pendientes y devuelve cuántos se entregaron.
// Los errores de publicación se registran por mensaje; solo falla si no se puede leer o marcar el outbox.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	msgs, err := d.outbox.ClaimPending(ctx, d.batchSize, d.now(), d.lease)
	if err != nil {
		return 0, fmt.Errorf("reservar outbox: %w", err)
	}
	sent := 0
	for _, m := range msgs {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if pubErr := d.pub.Publish(ctx, m); pubErr != nil {
			final := m.Attempts+1 >= d.maxAttempts
			d.log.Warn().Err(pubErr).Str("message_id", m.ID).Int("attempt", m.Attempts+1).Bool("final", final).Msg("no se pudo publicar la notificación")
			if err := d.outbox.MarkFailed(ctx, m.ID, pubErr.Error(), final); err != nil {
				return sent, fmt.Errorf("marcar fallo %s: %w", m.ID, err)
			}
			continue
		}
		if err := d.outbox.MarkDispatched(ctx, m.ID, d.now()); err != nil {
			return sent, fmt.Errorf("marcar despacho %s: %w", m.ID, err)
		}
		sent++
	}
	return sent, nil
}
