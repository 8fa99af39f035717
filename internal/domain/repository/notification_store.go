package repository

import (
	"context"

	"github.com/jacpae/portal-api/internal/domain/entity"
)

// NotificationStore define el puerto sobre el row store de notificaciones.
type NotificationStore interface {
	// Insert intenta insertar la notificación. Devuelve false cuando el store
	// responde con conflicto de unicidad sobre source_key (deduplicada).
	// No hay lectura previa: la constraint única es el único mecanismo.
	Insert(ctx context.Context, n *entity.NotificationCandidate) (bool, error)
	// ListByUser devuelve las notificaciones del usuario, más recientes primero.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error)
	// MarkRead marca como leída la notificación si pertenece al usuario.
	// Devuelve false si no existe o no es suya.
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
}
