package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/cart"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
)

// Headers de identidad aceptados por el carrito cuando no hay bearer token.
const (
	HeaderUserID  = "x-user-id"
	HeaderGuestID = "x-guest-id"
)

// CartHandler carrito persistido del cliente o del invitado.
type CartHandler struct {
	uc *cart.UseCase
	errorResponder
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase, er errorResponder) *CartHandler {
	return &CartHandler{uc: uc, errorResponder: er}
}

// cartIdentity el bearer token manda sobre x-user-id; x-guest-id solo aplica sin usuario.
// Un x-user-id que no es UUID no corresponde a ningún usuario.
func cartIdentity(c *fiber.Ctx) (cart.Identity, error) {
	if id := GetUserID(c); id != "" {
		return cart.Identity{UserID: id}, nil
	}
	id := cart.Identity{GuestID: strings.TrimSpace(c.Get(HeaderGuestID))}
	if raw := strings.TrimSpace(c.Get(HeaderUserID)); raw != "" {
		userID, err := parseID(raw, domain.ErrUserNotFound)
		if err != nil {
			return cart.Identity{}, err
		}
		id.UserID = userID
	}
	return id, nil
}

// Get godoc
// @Summary      Obtener carrito
// @Description  Identidad por bearer token, x-user-id o x-guest-id. Un código inválido da descuento 0.
// @Tags         cart
// @Produce      json
// @Param        code        query   string  false  "código promocional"
// @Param        x-user-id   header  string  false  "ID del usuario"
// @Param        x-guest-id  header  string  false  "ID del invitado"
// @Success      200  {object}  dto.CartResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	id, err := cartIdentity(c)
	if err != nil {
		return h.respond(c, err)
	}
	out, err := h.uc.Get(c.Context(), id, c.Query("code"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Replace godoc
// @Summary      Reemplazar carrito
// @Description  Sustituye el carrito completo. No verifica stock.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReplaceCartRequest  true  "cart"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/cart [put]
func (h *CartHandler) Replace(c *fiber.Ctx) error {
	var in dto.ReplaceCartRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	id, err := cartIdentity(c)
	if err != nil {
		return h.respond(c, err)
	}
	if err := h.uc.Replace(c.Context(), id, in.Cart); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Merge godoc
// @Summary      Fusionar carrito de invitado
// @Description  Suma las cantidades del invitado al carrito del usuario y borra el del invitado.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MergeCartRequest  true  "guestId"
// @Success      200   {object}  dto.CartResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/cart/merge [post]
func (h *CartHandler) Merge(c *fiber.Ctx) error {
	var in dto.MergeCartRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Merge(c.Context(), GetUserID(c), in.GuestID)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
