package erp

import (
	"context"
	"fmt"
	"time"

	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

var _ repository.GiroRepository = (*GiroRepo)(nil)

// GiroRepo lee efectos pendientes de la contabilidad (base g4finan).
type GiroRepo struct {
	q Querier
}

// NewGiroRepository construye el adaptador sobre el pool de contabilidad.
func NewGiroRepository(q Querier) *GiroRepo {
	return &GiroRepo{q: q}
}

// Solo efectos de cobro de la empresa 1 que aún no se han girado, con
// numeración R o S (remesas y recibos al cobro).
const girosByCtaSQL = `
	SELECT cli_pro AS cta_contable, num_efecto, vencimiento, importe
	FROM efectos_e
	WHERE empresa = 1
	  AND giro_rec = 0
	  AND cobro_pago = 1
	  AND (num_efecto LIKE 'R%' OR num_efecto LIKE 'S%')
	  AND cli_pro = $1
	  AND vencimiento BETWEEN $2 AND $3
	ORDER BY vencimiento ASC, num_efecto ASC`

// FetchByCtaContable devuelve los efectos de la cuenta con vencimiento dentro
// de la ventana [from, to], ambos inclusive.
func (r *GiroRepo) FetchByCtaContable(ctx context.Context, ctaContable string, from, to time.Time) ([]entity.GiroEffect, error) {
	rows, err := r.q.Query(ctx, girosByCtaSQL, ctaContable, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: consultar giros: %v", domain.ErrDataSource, err)
	}
	defer rows.Close()

	var list []entity.GiroEffect
	for rows.Next() {
		var g entity.GiroEffect
		if err := rows.Scan(&g.CtaContable, &g.NumEfecto, &g.Vencimiento, &g.Importe); err != nil {
			return nil, fmt.Errorf("scan giro: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}
