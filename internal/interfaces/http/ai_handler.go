package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
)

// AIHandler sugerencias de texto para fichas de producto.
type AIHandler struct {
	uc *usecase.AIUseCase
	errorResponder
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase, er errorResponder) *AIHandler {
	return &AIHandler{uc: uc, errorResponder: er}
}

// SuggestDescription godoc
// @Summary      Sugerir descripción de producto con IA
// @Description  Redacta una descripción comercial a partir del nombre, la categoría y palabras clave.
// @Description  Timeout interno de 10 s.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductDescriptionRequest  true  "name (obligatorio), category, keywords"
// @Success      200   {object}  dto.ProductDescriptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/product-description [post]
func (h *AIHandler) SuggestDescription(c *fiber.Ctx) error {
	var req dto.ProductDescriptionRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	result, err := h.uc.SuggestDescription(c.Context(), req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
				Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo",
			})
		}
		return h.respond(c, err)
	}
	return c.JSON(result)
}
