package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// Handler procesa un mensaje; un error lo descarta (Nack sin requeue) para no ciclar.
type Handler func(ctx context.Context, topic string, body []byte) error

// Consumer lee la cola con reconexión y backoff exponencial (1s → 30s).
type Consumer struct {
	url      string
	queue    string
	prefetch int
	log      *logger.Logger
}

// NewConsumer prefetch controla cuántos mensajes sin ack recibe a la vez.
func NewConsumer(url, queue string, prefetch int, log *logger.Logger) *Consumer {
	if prefetch <= 0 {
		prefetch = 20
	}
	return &Consumer{url: url, queue: queue, prefetch: prefetch, log: log}
}

// Run consume hasta que ctx se cancele. Los errores de conexión se registran y se reintenta.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("rabbitmq: no se pudo conectar")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn, h)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.Warn().Err(err).Msg("rabbitmq: consumo interrumpido, reconectando")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection, h Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info().Str("queue", c.queue).Msg("rabbitmq: consumiendo")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("canal de entregas cerrado")
			}
			c.handle(ctx, d, h)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery, h Handler) {
	topic, _ := d.Headers[HeaderTopic].(string)
	if err := h(ctx, topic, d.Body); err != nil {
		c.log.Error().Err(err).Str("message_id", d.MessageId).Str("topic", topic).Msg("rabbitmq: mensaje descartado")
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
