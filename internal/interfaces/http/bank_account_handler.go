package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain/policy"
)

// BankAccountHandler cuentas donde el cliente paga (pago móvil o transferencia).
type BankAccountHandler struct {
	uc *usecase.BankAccountUseCase
	errorResponder
}

// NewBankAccountHandler construye el handler.
func NewBankAccountHandler(uc *usecase.BankAccountUseCase, er errorResponder) *BankAccountHandler {
	return &BankAccountHandler{uc: uc, errorResponder: er}
}

// List godoc
// @Summary      Cuentas de cobro
// @Description  Público: solo las activas. Un administrador ve todas.
// @Tags         bank-accounts
// @Produce      json
// @Success      200  {array}  dto.BankAccountResponse
// @Router       /api/bank-accounts [get]
func (h *BankAccountHandler) List(c *fiber.Ctx) error {
	onlyActive := !policy.Allow(GetRole(c), policy.ActionBankAccountsManage)
	out, err := h.uc.List(c.Context(), onlyActive)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar cuenta de cobro
// @Description  MOBILE_PAYMENT exige phone y holderId; TRANSFER exige accountNumber de 20 dígitos, holderName y holderId.
// @Tags         bank-accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BankAccountRequest  true  "Datos de la cuenta"
// @Success      201   {object}  dto.BankAccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bank-accounts [post]
func (h *BankAccountHandler) Create(c *fiber.Ctx) error {
	var in dto.BankAccountRequest
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
// @Summary      Editar cuenta de cobro
// @Tags         bank-accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la cuenta"
// @Param        body  body  dto.UpdateBankAccountRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BankAccountResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/bank-accounts/{id} [patch]
func (h *BankAccountHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	var in dto.UpdateBankAccountRequest
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
// @Summary      Eliminar cuenta de cobro
// @Tags         bank-accounts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bank-accounts/{id} [delete]
func (h *BankAccountHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
