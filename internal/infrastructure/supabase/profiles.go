package supabase

import (
	"context"
	"net/url"

	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

var _ repository.ProfileStore = (*Client)(nil)

const profilesTable = "customer_profiles"

type profileRow struct {
	UserID           string `json:"user_id"`
	IsActive         bool   `json:"is_active"`
	ErpCltProv       string `json:"erp_clt_prov"`
	CtaContable      string `json:"cta_contable"`
	AvisarGiro       bool   `json:"avisar_giro"`
	DiasAvisoGiro    *int   `json:"dias_aviso_giro"`
	AvisarReparto    bool   `json:"avisar_reparto"`
	DiasAvisoReparto *int   `json:"dias_aviso_reparto"`
}

func (r profileRow) toEntity() entity.CustomerProfile {
	return entity.CustomerProfile{
		UserID:           r.UserID,
		IsActive:         r.IsActive,
		ErpCltProv:       r.ErpCltProv,
		CtaContable:      r.CtaContable,
		AvisarGiro:       r.AvisarGiro,
		DiasAvisoGiro:    r.DiasAvisoGiro,
		AvisarReparto:    r.AvisarReparto,
		DiasAvisoReparto: r.DiasAvisoReparto,
	}
}

const profileSelect = "user_id,is_active,erp_clt_prov,cta_contable,avisar_giro,dias_aviso_giro,avisar_reparto,dias_aviso_reparto"

// GetByUserID devuelve el perfil del usuario o domain.ErrProfileNotFound.
func (c *Client) GetByUserID(ctx context.Context, userID string) (*entity.CustomerProfile, error) {
	query := url.Values{
		"user_id": {"eq." + userID},
		"select":  {profileSelect},
	}
	var rows []profileRow
	if err := c.getJSON(ctx, profilesTable, query, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrProfileNotFound
	}
	p := rows[0].toEntity()
	return &p, nil
}

// ListGiroProfiles devuelve los perfiles activos con aviso de giro habilitado
// y cuenta contable presente.
func (c *Client) ListGiroProfiles(ctx context.Context) ([]entity.CustomerProfile, error) {
	query := url.Values{
		"select":       {profileSelect},
		"is_active":    {"eq.true"},
		"avisar_giro":  {"eq.true"},
		"cta_contable": {"not.is.null"},
	}
	var rows []profileRow
	if err := c.getJSON(ctx, profilesTable, query, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.CustomerProfile, 0, len(rows))
	for _, r := range rows {
		if r.CtaContable == "" {
			continue // el filtro not.is.null no excluye cadenas vacías
		}
		out = append(out, r.toEntity())
	}
	return out, nil
}

// ListRepartoProfiles devuelve los perfiles activos con aviso de reparto
// habilitado y código de cliente ERP presente.
func (c *Client) ListRepartoProfiles(ctx context.Context) ([]entity.CustomerProfile, error) {
	query := url.Values{
		"select":        {profileSelect},
		"is_active":     {"eq.true"},
		"avisar_reparto": {"eq.true"},
		"erp_clt_prov":  {"not.is.null"},
	}
	var rows []profileRow
	if err := c.getJSON(ctx, profilesTable, query, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.CustomerProfile, 0, len(rows))
	for _, r := range rows {
		if r.ErpCltProv == "" {
			continue
		}
		out = append(out, r.toEntity())
	}
	return out, nil
}

// ListActiveUserIDs devuelve los user_id de todos los perfiles activos.
func (c *Client) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	query := url.Values{
		"select":    {"user_id"},
		"is_active": {"eq.true"},
	}
	var rows []struct {
		UserID string `json:"user_id"`
	}
	if err := c.getJSON(ctx, profilesTable, query, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	return ids, nil
}
