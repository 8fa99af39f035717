package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jacpae/portal-api/internal/application/dto"
	"github.com/jacpae/portal-api/internal/application/offers"
)

// OfferLocator localiza la oferta vigente. Lo implementa offers.Service.
type OfferLocator interface {
	Current(ctx context.Context) (offers.Offer, string, error)
}

// OffersHandler sirve el PDF de la oferta comercial vigente.
type OffersHandler struct {
	locator OfferLocator
}

// NewOffersHandler construye el handler.
func NewOffersHandler(locator OfferLocator) *OffersHandler {
	return &OffersHandler{locator: locator}
}

// Current sirve el PDF de la oferta vigente, o 404 si no hay ninguna.
// GET /api/offers/current
func (h *OffersHandler) Current(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	offer, path, err := h.locator.Current(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", offer.Filename))
	return c.SendFile(path)
}
