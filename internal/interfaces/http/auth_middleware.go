package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jacpae/portal-api/internal/application/dto"
	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
)

// LocalIdentity key de la identidad verificada en c.Locals.
const LocalIdentity = "identity"

// TokenVerifier valida un token bearer y devuelve la identidad verificada.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*entity.Identity, error)
}

// AuthMiddleware valida el Bearer Token y deja la identidad en c.Locals.
// Una caché de claves caída es un 503, nunca un 401: el cliente no debe
// cerrar sesión por un fallo transitorio del servidor.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}

		identity, err := verifier.Verify(c.Context(), tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrKeyUnavailable) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "KEY_UNAVAILABLE", Message: "claves de firma no disponibles, reintente"})
			}
			if errors.Is(err, domain.ErrExpiredToken) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "token expirado"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
		}

		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware).
func GetIdentity(c *fiber.Ctx) *entity.Identity {
	v := c.Locals(LocalIdentity)
	if v == nil {
		return nil
	}
	id, _ := v.(*entity.Identity)
	return id
}
