package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jacpae/portal-api/internal/application/dto"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

// NotificationsHandler expone el buzón de notificaciones del usuario.
type NotificationsHandler struct {
	store repository.NotificationStore
}

// NewNotificationsHandler construye el handler.
func NewNotificationsHandler(store repository.NotificationStore) *NotificationsHandler {
	return &NotificationsHandler{store: store}
}

// List devuelve las notificaciones del usuario, más recientes primero.
// GET /api/notifications?limit=&offset=
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	rows, err := h.store.ListByUser(c.Context(), identity.Sub, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.NotificationResponse, 0, len(rows))
	for _, n := range rows {
		out = append(out, dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Body:      n.Body,
			Data:      n.Data,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(out)
}

// MarkRead marca una notificación del usuario como leída. Idempotente a
// nivel de recurso: una ya leída o ajena responde 404.
// PATCH /api/notifications/:id/read
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	ok, err := h.store.MarkRead(c.Context(), identity.Sub, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "notificación no encontrada"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
