package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
)

// UserHandler perfil del cliente, sus direcciones y la administración de usuarios.
type UserHandler struct {
	users     *usecase.UserUseCase
	addresses *usecase.AddressUseCase
	errorResponder
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserUseCase, addresses *usecase.AddressUseCase, er errorResponder) *UserHandler {
	return &UserHandler{users: users, addresses: addresses, errorResponder: er}
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.users.GetByID(c.Context(), GetUserID(c))
	if err != nil {
		return h.respond(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.JSON(out)
}

// UpdateMe godoc
// @Summary      Actualizar perfil
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "name, phone, subscribed"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/users/me [put]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.users.UpdateProfile(c.Context(), GetUserID(c), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar clave
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "currentPassword, newPassword"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/users/me/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if err := h.users.ChangePassword(c.Context(), GetUserID(c), in); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// ListAddresses godoc
// @Summary      Direcciones del usuario
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AddressResponse
// @Router       /api/users/me/addresses [get]
func (h *UserHandler) ListAddresses(c *fiber.Ctx) error {
	out, err := h.addresses.List(c.Context(), GetUserID(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// CreateAddress godoc
// @Summary      Agregar dirección
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddressRequest  true  "line, city"
// @Success      201   {object}  dto.AddressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/users/me/addresses [post]
func (h *UserHandler) CreateAddress(c *fiber.Ctx) error {
	var in dto.AddressRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.addresses.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateAddress godoc
// @Summary      Editar dirección
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la dirección"
// @Param        body  body  dto.AddressRequest  true  "line, city"
// @Success      200   {object}  dto.AddressResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/me/addresses/{id} [put]
func (h *UserHandler) UpdateAddress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	var in dto.AddressRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.addresses.Update(c.Context(), GetUserID(c), id, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// SetDefaultAddress godoc
// @Summary      Marcar dirección por defecto
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la dirección"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/me/addresses/{id}/default [post]
func (h *UserHandler) SetDefaultAddress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	if err := h.addresses.SetDefault(c.Context(), GetUserID(c), id); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// DeleteAddress godoc
// @Summary      Eliminar dirección
// @Description  409 si la dirección está referenciada por una orden.
// @Tags         users
// @Security     Bearer
// @Param        id   path  string  true  "ID de la dirección"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users/me/addresses/{id} [delete]
func (h *UserHandler) DeleteAddress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	if err := h.addresses.Delete(c.Context(), GetUserID(c), id); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminList godoc
// @Summary      Listar usuarios
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *UserHandler) AdminList(c *fiber.Ctx) error {
	var page dto.PageRequest
	if ok, err := parseQuery(c, &page); !ok {
		return err
	}
	out, err := h.users.List(c.Context(), page)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// AdminUpdate godoc
// @Summary      Activar/desactivar usuario o cambiar su rol
// @Description  Cambiar el rol requiere SUPER_ADMIN.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del usuario"
// @Param        body  body  dto.AdminUpdateUserRequest  true  "active, role"
// @Success      200   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [patch]
func (h *UserHandler) AdminUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.respond(c, err)
	}
	var in dto.AdminUpdateUserRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.users.AdminUpdate(c.Context(), GetUserID(c), GetRole(c), id, in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
