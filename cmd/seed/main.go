// Command seed carga datos iniciales en PostgreSQL: el super administrador y el catálogo desde CSV.
//
// Uso:
//
//	go run ./cmd/seed admin --email admin@ferreteria.com --password ******** --name "Admin"
//	go run ./cmd/seed products catalogo.csv --encoding windows-1252 --sep ';'
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/ferreteria-api/internal/application/auth"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ferreteria-api/pkg/config"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func main() {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Carga datos iniciales de la ferretería",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(adminCmd(), productsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

type env struct {
	cfg   *config.Config
	log   *logger.Logger
	close func()
}

func setup(ctx context.Context) (*env, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return &env{cfg: cfg, log: log, close: pool.Close}, pool, nil
}

func adminCmd() *cobra.Command {
	var in dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Crea (o promueve) el super administrador",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, pool, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			users := postgres.NewUserRepository(pool)
			in.City = e.cfg.Store.City
			if in.Phone == "" {
				in.Phone = "0000000"
			}
			if err := dto.Validate(in); err != nil {
				return err
			}
			authUC := auth.NewAuthUseCase(users, postgres.NewTxRunner(pool), auth.JWTConfig{Secret: e.cfg.JWT.Secret}, e.cfg.Store.City)
			if _, err := authUC.Register(ctx, in); err != nil && !errors.Is(err, domain.ErrEmailAlreadyExists) {
				return fmt.Errorf("registrar administrador: %w", err)
			}

			u, err := users.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("usuario %s no encontrado tras el registro", in.Email)
			}
			if u.Role != entity.RoleSuperAdmin || !u.Active {
				u.Role = entity.RoleSuperAdmin
				u.Active = true
				if err := users.Update(ctx, u); err != nil {
					return err
				}
			}
			e.log.Info().Str("email", u.Email).Str("user_id", u.ID).Msg("super administrador listo")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email del administrador")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&in.Name, "name", "Administrador", "nombre visible")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "teléfono de contacto")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func productsCmd() *cobra.Command {
	var (
		encoding string
		sep      string
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "products <archivo.csv>",
		Short: "Importa categorías y productos; los SKU existentes se omiten",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len([]rune(sep)) != 1 {
				return fmt.Errorf("--sep debe ser un solo carácter")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r, err := decodeReader(f, encoding)
			if err != nil {
				return err
			}
			rows, err := readCatalog(r, []rune(sep)[0])
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d productos válidos en %s\n", len(rows), args[0])
				return nil
			}

			ctx := cmd.Context()
			e, pool, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			categories := postgres.NewCategoryRepository(pool)
			products := postgres.NewProductRepository(pool)
			imp := &importer{
				categories: categories,
				categoryUC: usecase.NewCategoryUseCase(categories),
				productUC:  usecase.NewProductUseCase(products, categories),
				products:   products,
				log:        e.log,
				bySlug:     map[string]string{},
			}
			created, skipped, err := imp.run(ctx, rows)
			if err != nil {
				return err
			}
			e.log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo importado")
			return nil
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "utf8", "codificación del archivo: utf8, latin1, windows-1252")
	cmd.Flags().StringVar(&sep, "sep", ",", "separador de columnas")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "solo valida el archivo")
	return cmd
}
