package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepository)(nil)
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct{ s *Store }

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(s *Store) *ProductRepository { return &ProductRepository{s: s} }

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = clone(p)
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.products[id]), nil
}

func (r *ProductRepository) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = clone(p)
	return nil
}

func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(f.Search))
	all := sortedValues(r.s.products, func(a, b *entity.Product) int { return strings.Compare(a.Name, b.Name) })
	out := all[:0]
	for _, p := range all {
		if f.OnlyActive && !p.Active {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
			continue
		}
		out = append(out, p)
	}
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *ProductRepository) DecrementStock(_ context.Context, productID string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Stock-qty < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

// CategoryRepository implementación en memoria de repository.CategoryRepository.
type CategoryRepository struct{ s *Store }

// NewCategoryRepository construye el repositorio sobre el store.
func NewCategoryRepository(s *Store) *CategoryRepository { return &CategoryRepository{s: s} }

func (r *CategoryRepository) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Slug == c.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = clone(c)
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.categories[id]), nil
}

func (r *CategoryRepository) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Slug == slug {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.categories, func(a, b *entity.Category) int { return strings.Compare(a.Name, b.Name) }), nil
}
