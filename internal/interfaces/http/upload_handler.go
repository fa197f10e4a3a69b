package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain"
)

// UploadHandler subida de imágenes (multipart, campo "file").
type UploadHandler struct {
	uc *usecase.UploadUseCase
	errorResponder
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *usecase.UploadUseCase, er errorResponder) *UploadHandler {
	return &UploadHandler{uc: uc, errorResponder: er}
}

// Generic godoc
// @Summary      Subir imagen
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "jpeg, png o webp"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Generic(c *fiber.Ctx) error {
	return h.upload(c, usecase.UploadKindGeneric, "")
}

// Product godoc
// @Summary      Subir imagen de producto
// @Description  Con productId la URL queda como imagen del producto.
// @Tags         uploads
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "jpeg, png o webp"
// @Param        productId  formData  string  false  "ID del producto"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/upload/products [post]
func (h *UploadHandler) Product(c *fiber.Ctx) error {
	return h.upload(c, usecase.UploadKindProduct, c.FormValue("productId"))
}

func (h *UploadHandler) upload(c *fiber.Ctx, kind, productID string) error {
	if productID != "" {
		id, err := parseID(productID, domain.ErrNotFound)
		if err != nil {
			return h.respond(c, err)
		}
		productID = id
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "archivo requerido", Fields: map[string]string{"file": "es obligatorio"},
		})
	}
	if fh.Size > h.uc.MaxBytes() {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "archivo demasiado grande"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.respond(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.uc.MaxBytes()+1))
	if err != nil {
		return h.respond(c, err)
	}
	out, err := h.uc.Upload(c.Context(), kind, data, productID)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
