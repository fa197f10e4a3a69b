package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ferreteria-api/pkg/config"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

type txRunner interface {
	ports.AccountTxRunner
	ports.OrderTxRunner
}

// repositories implementación de persistencia elegida por STORAGE_DRIVER.
type repositories struct {
	users        repository.UserRepository
	addresses    repository.AddressRepository
	carts        repository.CartRepository
	categories   repository.CategoryRepository
	products     repository.ProductRepository
	promotions   repository.PromotionRepository
	orders       repository.OrderRepository
	outbox       repository.OutboxRepository
	analytics    repository.AnalyticsRepository
	bankAccounts repository.BankAccountRepository
	tx           txRunner
	close        func()
}

func openRepositories(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*repositories, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		m := memory.New()
		return &repositories{
			users:        m.Users,
			addresses:    m.Addresses,
			carts:        m.Carts,
			categories:   m.Categories,
			products:     m.Products,
			promotions:   m.Promotions,
			orders:       m.Orders,
			outbox:       m.Outbox,
			analytics:    m.Analytics,
			bankAccounts: m.BankAccounts,
			tx:           m.Tx,
			close:        func() {},
		}, nil
	case "postgres", "":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:        postgres.NewUserRepository(pool),
			addresses:    postgres.NewAddressRepository(pool),
			carts:        postgres.NewCartRepository(pool),
			categories:   postgres.NewCategoryRepository(pool),
			products:     postgres.NewProductRepository(pool),
			promotions:   postgres.NewPromotionRepository(pool),
			orders:       postgres.NewOrderRepository(pool),
			outbox:       postgres.NewOutboxRepository(pool),
			analytics:    postgres.NewAnalyticsRepository(pool),
			bankAccounts: postgres.NewBankAccountRepository(pool),
			tx:           postgres.NewTxRunner(pool),
			close:        pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("STORAGE_DRIVER desconocido: %q", cfg.Driver)
}
