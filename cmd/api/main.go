package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/ferreteria-api/internal/application/analytics"
	"github.com/jhoicas/ferreteria-api/internal/application/auth"
	"github.com/jhoicas/ferreteria-api/internal/application/cart"
	"github.com/jhoicas/ferreteria-api/internal/application/notification"
	"github.com/jhoicas/ferreteria-api/internal/application/order"
	"github.com/jhoicas/ferreteria-api/internal/application/promotion"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	infraai "github.com/jhoicas/ferreteria-api/internal/infrastructure/ai"
	inframail "github.com/jhoicas/ferreteria-api/internal/infrastructure/mail"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/ferreteria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/rabbitmq"
	infraredis "github.com/jhoicas/ferreteria-api/internal/infrastructure/redis"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/ferreteria-api/internal/interfaces/http"
	"github.com/jhoicas/ferreteria-api/pkg/config"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.close()

	// Redis es opcional: sin REDIS_ADDR los carritos de invitado viven en memoria y no hay rate limit.
	rdb, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	var guests repository.GuestCartStore = memory.NewGuestCartStore(cfg.Cart.GuestTTL)
	var limiter httpRouter.RateLimiter
	if rdb != nil {
		defer rdb.Close()
		guests = infraredis.NewGuestCartStore(rdb, cfg.Cart.GuestTTL)
		if cfg.RateLimit.Enabled {
			limiter = infraredis.NewRateLimiter(rdb, cfg.RateLimit.Capacity, cfg.RateLimit.RefillInterval, cfg.RateLimit.Prefix)
		}
	}

	// Notificaciones: RabbitMQ si está configurado (cmd/notifier consume la cola), si no correo directo.
	var publisher notification.Publisher
	if cfg.Broker.URL != "" {
		pub := rabbitmq.NewPublisher(cfg.Broker.URL, cfg.Broker.Queue, log.Component("rabbitmq"))
		defer pub.Close()
		publisher = pub
	} else {
		publisher = notification.NewMailPublisher(inframail.New(cfg.SMTP, log.Component("mail")))
	}
	dispatcher := notification.NewDispatcher(repos.outbox, publisher, log.Component("notifier"), cfg.Notify.MaxAttempts, cfg.Notify.BatchSize)
	go dispatcher.Run(ctx, cfg.Notify.Interval)

	blobs, err := storage.Open(ctx, cfg.Upload.BucketURL, cfg.Upload.PublicPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir bucket de imágenes")
	}
	defer blobs.Close()

	m := metrics.New()
	resolver := promotion.NewResolver(repos.promotions, log.Component("promotions"))

	authUC := auth.NewAuthUseCase(repos.users, repos.tx, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Store.City)
	orderUC := order.NewUseCase(order.Deps{
		Tx:        repos.tx,
		Orders:    repos.orders,
		Users:     repos.users,
		Addresses: repos.addresses,
		Resolver:  resolver,
		Kicker:    dispatcher,
		Metrics:   m,
		Receipts:  infrapdf.NewReceiptGenerator(),
		Log:       log.Component("orders"),
	}, order.Config{ShippingFlatCost: cfg.Store.ShippingFlatCost, StoreName: cfg.App.Name})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 20,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    (cfg.Upload.MaxMB + 1) << 20,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(httpRouter.MetricsMiddleware(m))
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderUserID + ", " + httpRouter.HeaderGuestID,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Ferretería API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(repos.users),
		AddressUC:      usecase.NewAddressUseCase(repos.addresses, repos.tx, cfg.Store.City),
		ProductUC:      usecase.NewProductUseCase(repos.products, repos.categories),
		CategoryUC:     usecase.NewCategoryUseCase(repos.categories),
		CartUC:         cart.NewUseCase(repos.carts, guests, resolver),
		PromotionUC:    promotion.NewUseCase(repos.promotions, resolver),
		OrderUC:        orderUC,
		DashboardUC:    appanalytics.NewDashboardUseCase(repos.analytics),
		BankAccountUC:  usecase.NewBankAccountUseCase(repos.bankAccounts),
		UploadUC:       usecase.NewUploadUseCase(blobs, repos.products, cfg.Upload.MaxMB),
		AIUC:           usecase.NewAIUseCase(infraai.New(cfg.AI)),
		JWTSecret:      cfg.JWT.Secret,
		Logger:         log,
		RateLimiter:    limiter,
		MetricsHandler: m.Handler(),
		UploadsDir:     blobs.LocalDir(),
		UploadsPrefix:  cfg.Upload.PublicPrefix,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
