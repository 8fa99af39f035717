package erp

import (
	"context"
	"fmt"
	"time"

	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

var _ repository.RepartoRepository = (*RepartoRepo)(nil)

// RepartoRepo lee rutas programadas de la gestión (base g4).
type RepartoRepo struct {
	q Querier
}

// NewRepartoRepository construye el adaptador sobre el pool de gestión.
func NewRepartoRepository(q Querier) *RepartoRepo {
	return &RepartoRepo{q: q}
}

const repartosByClientSQL = `
	SELECT c.codigo AS clt_prov, r.fecha, l.ruta, l.subruta, l.grupo, l.subgrupo
	FROM cliente c
	INNER JOIN lin_rutas_grupo l
	  ON c.grupo = l.grupo AND c.subgrupo = l.subgrupo
	INNER JOIN rutas_programacion r
	  ON l.ruta = r.ruta AND l.subruta = r.subruta
	WHERE c.baja_comercial = 'N'
	  AND c.codigo = $1
	  AND r.fecha = $2
	ORDER BY r.fecha ASC, c.codigo ASC, l.ruta ASC, l.subruta ASC`

// FetchByClient devuelve las rutas programadas del cliente en la fecha objetivo.
func (r *RepartoRepo) FetchByClient(ctx context.Context, cltProv string, targetDate time.Time) ([]entity.RepartoRoute, error) {
	rows, err := r.q.Query(ctx, repartosByClientSQL, cltProv, targetDate)
	if err != nil {
		return nil, fmt.Errorf("%w: consultar repartos: %v", domain.ErrDataSource, err)
	}
	defer rows.Close()

	var list []entity.RepartoRoute
	for rows.Next() {
		var rt entity.RepartoRoute
		if err := rows.Scan(&rt.CltProv, &rt.Fecha, &rt.Ruta, &rt.Subruta, &rt.Grupo, &rt.Subgrupo); err != nil {
			return nil, fmt.Errorf("scan reparto: %w", err)
		}
		list = append(list, rt)
	}
	return list, rows.Err()
}
