package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)

// AnalyticsRepository proyecciones del dashboard calculadas sobre las órdenes en memoria.
type AnalyticsRepository struct{ s *Store }

// NewAnalyticsRepository construye el repositorio sobre el store.
func NewAnalyticsRepository(s *Store) *AnalyticsRepository { return &AnalyticsRepository{s: s} }

func inPeriod(o *entity.Order, from, to time.Time) bool {
	return o.Status != entity.OrderStatusCancelled && !o.CreatedAt.Before(from) && !o.CreatedAt.After(to)
}

func (r *AnalyticsRepository) SalesTotals(_ context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	n := 0
	for _, o := range r.s.orders {
		if inPeriod(o, from, to) {
			total = total.Add(o.Total)
			n++
		}
	}
	return total, n, nil
}

func (r *AnalyticsRepository) CountByStatus(_ context.Context, status string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, o := range r.s.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *AnalyticsRepository) TopProducts(_ context.Context, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acc := map[string]*repository.TopProductResult{}
	for id, o := range r.s.orders {
		if !inPeriod(o, from, to) {
			continue
		}
		for _, it := range r.s.orderItems[id] {
			row, ok := acc[it.ProductID]
			if !ok {
				row = &repository.TopProductResult{ProductID: it.ProductID, ProductName: it.ProductName, Revenue: decimal.Zero}
				acc[it.ProductID] = row
			}
			row.UnitsSold += it.Quantity
			row.Revenue = row.Revenue.Add(it.Subtotal)
		}
	}
	out := make([]repository.TopProductResult, 0, len(acc))
	for _, row := range acc {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b repository.TopProductResult) int {
		if c := cmp.Compare(b.UnitsSold, a.UnitsSold); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductName, b.ProductName)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnalyticsRepository) RecentOrders(_ context.Context, limit int) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(sortedValues(r.s.orders, newestFirst), limit, 0), nil
}
