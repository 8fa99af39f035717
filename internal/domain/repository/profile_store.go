package repository

import (
	"context"

	"github.com/jacpae/portal-api/internal/domain/entity"
)

// ProfileStore define el puerto de lectura de perfiles de cliente en el
// row store externo. Todas las lecturas usan la credencial privilegiada;
// los errores de red/5xx se reportan como domain.ErrStoreUnavailable.
type ProfileStore interface {
	// GetByUserID devuelve el perfil del usuario o domain.ErrProfileNotFound.
	GetByUserID(ctx context.Context, userID string) (*entity.CustomerProfile, error)
	// ListGiroProfiles devuelve perfiles activos con aviso de giro y cuenta
	// contable presente.
	ListGiroProfiles(ctx context.Context) ([]entity.CustomerProfile, error)
	// ListRepartoProfiles devuelve perfiles activos con aviso de reparto y
	// código de cliente ERP presente.
	ListRepartoProfiles(ctx context.Context) ([]entity.CustomerProfile, error)
	// ListActiveUserIDs devuelve los user_id de todos los perfiles activos.
	ListActiveUserIDs(ctx context.Context) ([]string, error)
}
