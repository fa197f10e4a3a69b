package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// errorMapping código HTTP y código de error para un sentinel del dominio.
type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: ErrInvalidCity también es entrada inválida, pero lleva su propio código.
var errorTable = []errorMapping{
	{domain.ErrInvalidCity, fiber.StatusBadRequest, "INVALID_CITY"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{ports.ErrCopyWriterUnavailable, fiber.StatusServiceUnavailable, "AI_UNAVAILABLE"},
}

// errorResponder traduce errores de los casos de uso a dto.ErrorResponse.
// Lo que no es un error de dominio se registra y se responde como 500 genérico.
type errorResponder struct {
	log *logger.Logger
}

func (r errorResponder) respond(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos", Fields: ve.Fields,
		})
	}
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.target.Error()})
		}
	}
	r.log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func invalidQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
}

// parseID normaliza un identificador externo. Las claves son UUID: uno mal formado
// no puede existir y se responde con notFound antes de llegar al repositorio.
func parseID(raw string, notFound error) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", notFound
	}
	return u.String(), nil
}

// paramID parámetro de ruta con UUID.
func paramID(c *fiber.Ctx, name string) (string, error) {
	return parseID(c.Params(name), domain.ErrNotFound)
}

// parseBody decodifica el JSON y aplica los tags validate del DTO.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c)
	}
	if err := dto.Validate(out); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "datos inválidos", Fields: ve.Fields,
			})
		}
		return false, invalidBody(c)
	}
	return true, nil
}

// parseQuery igual que parseBody para la query string.
func parseQuery(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, invalidQuery(c)
	}
	if err := dto.Validate(out); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "parámetros inválidos", Fields: ve.Fields,
			})
		}
		return false, invalidQuery(c)
	}
	return true, nil
}
