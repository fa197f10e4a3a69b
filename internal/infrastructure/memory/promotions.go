package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.PromotionRepository = (*PromotionRepository)(nil)

// PromotionRepository implementación en memoria de repository.PromotionRepository.
type PromotionRepository struct{ s *Store }

// NewPromotionRepository construye el repositorio sobre el store.
func NewPromotionRepository(s *Store) *PromotionRepository { return &PromotionRepository{s: s} }

func (r *PromotionRepository) Create(_ context.Context, p *entity.Promotion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.byCode(p.Code) != nil {
		return domain.ErrDuplicate
	}
	r.s.promotions[p.ID] = clone(p)
	return nil
}

func (r *PromotionRepository) byCode(code string) *entity.Promotion {
	for _, p := range r.s.promotions {
		if p.Code == code {
			return p
		}
	}
	return nil
}

func (r *PromotionRepository) GetByID(_ context.Context, id string) (*entity.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.promotions[id]), nil
}

func (r *PromotionRepository) GetByCode(_ context.Context, code string) (*entity.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.byCode(code)), nil
}

func (r *PromotionRepository) Update(_ context.Context, p *entity.Promotion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.promotions[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if other := r.byCode(p.Code); other != nil && other.ID != p.ID {
		return domain.ErrDuplicate
	}
	r.s.promotions[p.ID] = clone(p)
	return nil
}

func (r *PromotionRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.promotions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.promotions, id)
	return nil
}

func (r *PromotionRepository) List(_ context.Context) ([]*entity.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.promotions, func(a, b *entity.Promotion) int { return strings.Compare(a.Code, b.Code) }), nil
}

func (r *PromotionRepository) ConsumeUsage(_ context.Context, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.byCode(code)
	if p == nil {
		return domain.ErrNotFound
	}
	if p.MaxUsage != nil {
		if *p.MaxUsage <= 0 {
			return domain.ErrConflict
		}
		left := *p.MaxUsage - 1
		p.MaxUsage = &left
	}
	p.UsageCount++
	return nil
}
