package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// PromotionRepository puerto de persistencia para cupones. Code es único.
type PromotionRepository interface {
	Create(ctx context.Context, p *entity.Promotion) error
	GetByID(ctx context.Context, id string) (*entity.Promotion, error)
	GetByCode(ctx context.Context, code string) (*entity.Promotion, error)
	Update(ctx context.Context, p *entity.Promotion) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Promotion, error)
	// ConsumeUsage incrementa usage_count y descuenta max_usage cuando no es nulo.
	// Devuelve domain.ErrConflict si el cupo ya se agotó.
	ConsumeUsage(ctx context.Context, code string) error
}
