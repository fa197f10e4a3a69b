package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/ferreteria-api/internal/application/analytics"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
)

// DashboardHandler resumen de ventas para el panel administrativo.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
	errorResponder
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, er errorResponder) *DashboardHandler {
	return &DashboardHandler{uc: uc, errorResponder: er}
}

// GetSummary devuelve ventas del período, órdenes pendientes, productos más vendidos y órdenes recientes.
// GET /api/admin/dashboard?days=30&top=5&recent=10
//
// Las órdenes canceladas no suman ventas. Sin órdenes el ticket promedio es 0.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var in dto.DashboardRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	summary, err := h.uc.GetSummary(c.Context(), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(summary)
}
