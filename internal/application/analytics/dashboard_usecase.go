// Package analytics contiene los casos de uso del dashboard del back-office.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/order"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

const (
	defaultDays   = 30
	defaultTop    = 5
	defaultRecent = 10
)

// DashboardUseCase genera el resumen de ventas del período.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// Las órdenes canceladas no suman en ventas ni en el ranking.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el DashboardResponse.
//
// Cuatro consultas en paralelo:
//  1. SalesTotals(período)       → TotalSales + TotalOrders
//  2. CountByStatus(PENDING)     → PendingOrders
//  3. TopProducts(período, top)  → TopProducts
//  4. RecentOrders(recent)       → RecentOrders
func (uc *DashboardUseCase) GetSummary(ctx context.Context, in dto.DashboardRequest) (*dto.DashboardResponse, error) {
	if in.Days <= 0 {
		in.Days = defaultDays
	}
	if in.Top <= 0 {
		in.Top = defaultTop
	}
	if in.Recent <= 0 {
		in.Recent = defaultRecent
	}
	now := uc.now()
	from := startOfDay(now).AddDate(0, 0, -(in.Days - 1))

	var (
		total   decimal.Decimal
		count   int
		pending int
		top     []repository.TopProductResult
		recent  []*entity.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, count, err = uc.analyticsRepo.SalesTotals(gctx, from, now)
		if err != nil {
			return fmt.Errorf("dashboard: ventas: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		pending, err = uc.analyticsRepo.CountByStatus(gctx, entity.OrderStatusPending)
		if err != nil {
			return fmt.Errorf("dashboard: pendientes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		top, err = uc.analyticsRepo.TopProducts(gctx, from, now, in.Top)
		if err != nil {
			return fmt.Errorf("dashboard: top productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recent, err = uc.analyticsRepo.RecentOrders(gctx, in.Recent)
		if err != nil {
			return fmt.Errorf("dashboard: órdenes recientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardResponse{
		TotalSales:        total.Round(2),
		TotalOrders:       count,
		AverageOrderValue: AverageOrderValue(total, count),
		PendingOrders:     pending,
		TopProducts:       make([]dto.TopProductDTO, 0, len(top)),
		RecentOrders:      make([]dto.OrderResponse, 0, len(recent)),
		PeriodLabel:       periodLabel(in.Days),
	}
	for _, t := range top {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID:   t.ProductID,
			ProductName: t.ProductName,
			UnitsSold:   t.UnitsSold,
			Revenue:     t.Revenue.Round(2),
		})
	}
	for _, o := range recent {
		out.RecentOrders = append(out.RecentOrders, *order.ToOrderResponse(o))
	}
	return out, nil
}

// AverageOrderValue total / cantidad; con cero órdenes devuelve 0.
func AverageOrderValue(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// periodLabel devuelve una etiqueta legible, ej: "Últimos 30 días".
func periodLabel(days int) string {
	if days == 1 {
		return "Hoy"
	}
	return fmt.Sprintf("Últimos %d días", days)
}
