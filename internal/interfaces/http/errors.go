package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jacpae/portal-api/internal/application/dto"
	"github.com/jacpae/portal-api/internal/domain"
)

// respondError traduce los errores de dominio al cuerpo de error uniforme.
// Los mensajes son genéricos a propósito: el detalle interno (DSN, rutas,
// SQL) se queda en los logs del servidor.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrMalformedReference):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REFERENCE", Message: "referencia de factura inválida"})
	case errors.Is(err, domain.ErrProfileNotFound):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PROFILE_NOT_FOUND", Message: "el usuario no tiene perfil de cliente"})
	case errors.Is(err, domain.ErrProfileInactive):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PROFILE_INACTIVE", Message: "el perfil de cliente está desactivado"})
	case errors.Is(err, domain.ErrOwnershipMismatch):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la factura no pertenece al cliente"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrArtifactNotReady):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PDF_NOT_READY", Message: "el PDF aún no está generado, reintente más tarde"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "servicio de perfiles no disponible"})
	case errors.Is(err, domain.ErrDataSource):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "DATA_SOURCE", Message: "fuente de datos no disponible"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
