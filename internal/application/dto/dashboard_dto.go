package dto

import "github.com/shopspring/decimal"

// DashboardResponse respuesta de GET /admin/dashboard.
// Las órdenes canceladas no suman en ventas ni en el ranking.
type DashboardResponse struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"` // 0 si no hubo órdenes
	PendingOrders     int             `json:"pendingOrders"`
	TopProducts       []TopProductDTO `json:"topProducts"`
	RecentOrders      []OrderResponse `json:"recentOrders"`
	PeriodLabel       string          `json:"periodLabel"` // ej: "Últimos 30 días"
}

// TopProductDTO producto del ranking por unidades vendidas.
type TopProductDTO struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitsSold   int             `json:"unitsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DashboardRequest parámetros de consulta.
type DashboardRequest struct {
	Days   int `query:"days" validate:"min=0,max=365"`
	Top    int `query:"top" validate:"min=0,max=50"`
	Recent int `query:"recent" validate:"min=0,max=50"`
}
