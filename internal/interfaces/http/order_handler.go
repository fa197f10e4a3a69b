package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/order"
)

// OrderHandler checkout, consultas y cambios de estado de órdenes.
type OrderHandler struct {
	uc *order.UseCase
	errorResponder
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase, er errorResponder) *OrderHandler {
	return &OrderHandler{uc: uc, errorResponder: er}
}

func actor(c *fiber.Ctx) order.Actor {
	return order.Actor{UserID: GetUserID(c), Role: GetRole(c)}
}

// Create godoc
// @Summary      Crear orden
// @Description  Los montos se recalculan en el servidor; el total enviado por el cliente se ignora.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "items, shippingAddressId, paymentMethod"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Description  El cliente ve sus órdenes; el administrador ve todas y puede filtrar por estado.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING, PROCESSING, SHIPPED, DELIVERED, CANCELLED"
// @Param        limit   query  int     false  "máx 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var in dto.OrderFilterRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), actor(c), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener orden con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	out, err := h.uc.Get(c.Context(), actor(c), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de cambios de la orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}  dto.OrderHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/history [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	out, err := h.uc.History(c.Context(), actor(c), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la orden
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	pdf, number, err := h.uc.Receipt(c.Context(), actor(c), id)
	if err != nil {
		return h.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+number+`.pdf"`)
	return c.Send(pdf)
}

// Update godoc
// @Summary      Cambiar estado de despacho o de pago
// @Description  Solo transiciones hacia adelante; DELIVERED y CANCELLED son terminales. Registra historial y notifica al cliente.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "status y/o paymentStatus"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [patch]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	var in dto.UpdateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), id, in, actor(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
