package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jacpae/portal-api/internal/application/billing"
	"github.com/jacpae/portal-api/internal/application/dto"
)

// MeHandler expone la identidad autenticada y su perfil de cliente.
type MeHandler struct {
	resolver *billing.ProfileResolver
}

// NewMeHandler construye el handler.
func NewMeHandler(resolver *billing.ProfileResolver) *MeHandler {
	return &MeHandler{resolver: resolver}
}

// Me devuelve la identidad del token y las preferencias del perfil.
// GET /api/me
func (h *MeHandler) Me(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	profile, err := h.resolver.Resolve(c.Context(), identity.Sub)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.MeResponse{
		UserID: identity.Sub,
		Email:  identity.Email,
		Role:   identity.Role,
		Profile: dto.ProfileResponse{
			ErpCltProv:       profile.ErpCltProv,
			CtaContable:      profile.CtaContable,
			AvisarGiro:       profile.AvisarGiro,
			DiasAvisoGiro:    profile.DiasAvisoGiro,
			AvisarReparto:    profile.AvisarReparto,
			DiasAvisoReparto: profile.DiasAvisoReparto,
		},
	})
}
