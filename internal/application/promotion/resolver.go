// Package promotion resuelve cupones de descuento y administra su catálogo.
package promotion

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/pricing"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// Resolution cupón vigente aplicado a un subtotal.
type Resolution struct {
	Promotion    *entity.Promotion
	Discount     decimal.Decimal // monto a restar, ya acotado al subtotal
	FreeShipping bool
}

// Resolver busca un cupón por código y evalúa su vigencia. Nunca devuelve error:
// un código inválido, vencido o una falla de lectura equivalen a "sin descuento".
type Resolver struct {
	repo repository.PromotionRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewResolver construye el resolver.
func NewResolver(repo repository.PromotionRepository, log *logger.Logger) *Resolver {
	return &Resolver{repo: repo, log: log, now: time.Now}
}

// Resolve devuelve (resolución, true) si el código corresponde a un cupón vigente.
func (r *Resolver) Resolve(ctx context.Context, code string, subtotal decimal.Decimal) (*Resolution, bool) {
	return resolveWith(ctx, r.repo, r.log, code, subtotal, r.now())
}

// ResolveIn igual que Resolve pero leyendo con el repositorio de la transacción en curso.
func (r *Resolver) ResolveIn(ctx context.Context, repo repository.PromotionRepository, code string, subtotal decimal.Decimal) (*Resolution, bool) {
	return resolveWith(ctx, repo, r.log, code, subtotal, r.now())
}

func resolveWith(ctx context.Context, repo repository.PromotionRepository, log *logger.Logger, code string, subtotal decimal.Decimal, now time.Time) (*Resolution, bool) {
	code = pricing.NormalizeCode(code)
	if code == "" {
		return nil, false
	}
	p, err := repo.GetByCode(ctx, code)
	if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("no se pudo leer el cupón; se ignora")
		return nil, false
	}
	if !pricing.Matches(p, now) {
		return nil, false
	}
	return &Resolution{
		Promotion:    p,
		Discount:     pricing.ApplyDiscount(subtotal, pricing.ComputeDiscount(subtotal, p)),
		FreeShipping: p.DiscountType == entity.DiscountFreeShipping,
	}, true
}
