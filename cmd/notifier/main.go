// Command notifier consume la cola de notificaciones de órdenes y envía los correos.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jhoicas/ferreteria-api/internal/application/notification"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/mail"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/rabbitmq"
	"github.com/jhoicas/ferreteria-api/pkg/config"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("notifier")

	if cfg.Broker.URL == "" {
		log.Fatal().Msg("BROKER_URL es obligatorio para el notificador")
	}
	if !cfg.SMTP.Enabled() {
		log.Warn().Msg("SMTP no configurado: los correos solo se registran en el log")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mailer := mail.New(cfg.SMTP, log.Component("mail"))
	consumer := rabbitmq.NewConsumer(cfg.Broker.URL, cfg.Broker.Queue, cfg.Notify.BatchSize, log.Component("rabbitmq"))

	log.Info().Str("queue", cfg.Broker.Queue).Msg("consumiendo notificaciones")
	err = consumer.Run(ctx, func(ctx context.Context, topic string, body []byte) error {
		if err := notification.Deliver(ctx, mailer, topic, body); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("entregar notificación")
			return err
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("consumidor detenido")
	}
	log.Info().Msg("notificador detenido")
}
