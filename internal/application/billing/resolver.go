// Package billing contiene los casos de uso de facturación del portal:
// resolución de perfil, listado de facturas y localización de sus PDF.
package billing

import (
	"context"

	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

// ProfileResolver carga el perfil del usuario autenticado y comprueba que
// sigue activo. Todo acceso a datos del ERP pasa por aquí primero.
type ProfileResolver struct {
	store repository.ProfileStore
}

// NewProfileResolver construye el resolutor de perfiles.
func NewProfileResolver(store repository.ProfileStore) *ProfileResolver {
	return &ProfileResolver{store: store}
}

// Resolve devuelve el perfil activo del usuario.
//
// Retorna:
//   - domain.ErrProfileNotFound   si no hay perfil para el user_id.
//   - domain.ErrProfileInactive   si el perfil existe pero está desactivado.
//   - domain.ErrStoreUnavailable  si el row store no responde.
func (r *ProfileResolver) Resolve(ctx context.Context, userID string) (*entity.CustomerProfile, error) {
	profile, err := r.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, domain.ErrProfileInactive
	}
	return profile, nil
}
