package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.PromotionRepository = (*PromotionRepo)(nil)

const promotionColumns = `id, code, description, discount_type, discount_value, start_date, end_date,
	max_usage, usage_count, active, created_at, updated_at`

// PromotionRepo cupones de descuento.
type PromotionRepo struct {
	q Querier
}

// NewPromotionRepository construye el adaptador (pool o tx).
func NewPromotionRepository(q Querier) *PromotionRepo {
	return &PromotionRepo{q: q}
}

func scanPromotion(row pgx.Row) (*entity.Promotion, error) {
	var p entity.Promotion
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.DiscountType, &p.DiscountValue, &p.StartDate, &p.EndDate,
		&p.MaxUsage, &p.UsageCount, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromotionRepo) Create(ctx context.Context, p *entity.Promotion) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO promotions (`+promotionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Code, p.Description, p.DiscountType, p.DiscountValue, p.StartDate, p.EndDate,
		p.MaxUsage, p.UsageCount, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

func (r *PromotionRepo) one(ctx context.Context, query string, arg any) (*entity.Promotion, error) {
	p, err := scanPromotion(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return p, nil
}

func (r *PromotionRepo) GetByID(ctx context.Context, id string) (*entity.Promotion, error) {
	return r.one(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id)
}

func (r *PromotionRepo) GetByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	return r.one(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE code = $1`, code)
}

func (r *PromotionRepo) Update(ctx context.Context, p *entity.Promotion) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE promotions SET code = $2, description = $3, discount_type = $4, discount_value = $5,
			start_date = $6, end_date = $7, max_usage = $8, active = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Code, p.Description, p.DiscountType, p.DiscountValue,
		p.StartDate, p.EndDate, p.MaxUsage, p.Active, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PromotionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PromotionRepo) List(ctx context.Context) ([]*entity.Promotion, error) {
	rows, err := r.q.Query(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ConsumeUsage suma un uso y descuenta uno del cupo restante (max_usage) en una sola sentencia.
// Cupo agotado → domain.ErrConflict.
func (r *PromotionRepo) ConsumeUsage(ctx context.Context, code string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE promotions
		SET usage_count = usage_count + 1,
			max_usage = CASE WHEN max_usage IS NULL THEN NULL ELSE max_usage - 1 END,
			updated_at = now()
		WHERE code = $1 AND (max_usage IS NULL OR max_usage > 0)`, code)
	if err != nil {
		return fmt.Errorf("consume promotion: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	p, err := r.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}
