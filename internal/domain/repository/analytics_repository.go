package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// TopProductResult fila cruda del ranking de productos por unidades vendidas.
type TopProductResult struct {
	ProductID   string
	ProductName string
	UnitsSold   int
	Revenue     decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el dashboard del back-office.
// Las órdenes CANCELLED se excluyen de ventas y ranking.
type AnalyticsRepository interface {
	// SalesTotals suma total y cuenta órdenes del período. Cero filas → (0, 0, nil).
	SalesTotals(ctx context.Context, from, to time.Time) (total decimal.Decimal, orders int, err error)
	CountByStatus(ctx context.Context, status string) (int, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResult, error)
	RecentOrders(ctx context.Context, limit int) ([]*entity.Order, error)
}
