package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/promotion"
)

// PromotionHandler validación pública de cupones y su administración.
type PromotionHandler struct {
	uc *promotion.UseCase
	errorResponder
}

// NewPromotionHandler construye el handler.
func NewPromotionHandler(uc *promotion.UseCase, er errorResponder) *PromotionHandler {
	return &PromotionHandler{uc: uc, errorResponder: er}
}

// Validate godoc
// @Summary      Validar cupón
// @Description  Un código inexistente, vencido o agotado responde valid=false.
// @Tags         promotions
// @Produce      json
// @Param        code      query  string  true   "código del cupón"
// @Param        subtotal  query  number  false  "subtotal del carrito"
// @Success      200  {object}  dto.ValidatePromotionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/promotions/validate [get]
func (h *PromotionHandler) Validate(c *fiber.Ctx) error {
	subtotal := decimal.Zero
	if raw := c.Query("subtotal"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "subtotal inválido", Fields: map[string]string{"subtotal": "debe ser un número >= 0"},
			})
		}
		subtotal = d
	}
	return c.JSON(h.uc.Validate(c.Context(), c.Query("code"), subtotal))
}

// List godoc
// @Summary      Listar cupones
// @Tags         promotions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PromotionResponse
// @Router       /api/promotions [get]
func (h *PromotionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear cupón
// @Tags         promotions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PromotionRequest  true  "Datos del cupón"
// @Success      201   {object}  dto.PromotionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/promotions [post]
func (h *PromotionHandler) Create(c *fiber.Ctx) error {
	var in dto.PromotionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar cupón
// @Tags         promotions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del cupón"
// @Param        body  body  dto.PromotionRequest  true  "Datos del cupón"
// @Success      200   {object}  dto.PromotionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/promotions/{id} [put]
func (h *PromotionHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	var in dto.PromotionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cupón
// @Tags         promotions
// @Security     Bearer
// @Param        id   path  string  true  "ID del cupón"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/promotions/{id} [delete]
func (h *PromotionHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
