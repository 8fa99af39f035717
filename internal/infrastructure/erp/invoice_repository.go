package erp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo lee facturas emitidas de la gestión (base g4).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador sobre el pool de gestión.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Cabecera + pie agregado. Clave 'B' son facturas emitidas; los documentos
// 'J%' son internos y no se muestran al cliente.
const invoicesSQL = `
	SELECT
	  c.ejercicio_factura,
	  c.clave_factura,
	  c.documento_factura,
	  c.serie_factura,
	  c.numero_factura,
	  CONCAT(c.documento_factura, '-', c.numero_factura) AS factura,
	  MAX(c.fecha_factura) AS fecha,
	  MAX(p.imp_base) AS base_imponible,
	  MAX(p.imp_iva) AS importe_iva,
	  MAX(p.imp_total) AS importe_total
	FROM cab_venta c
	INNER JOIN pie_venta_e p ON
	  c.ejercicio_factura = p.ejercicio AND
	  c.clave_factura = p.clave AND
	  c.documento_factura = p.documento AND
	  c.serie_factura = p.serie AND
	  c.numero_factura = p.numero
	WHERE
	  c.ejercicio_factura IN ($1, $2)
	  AND c.clave_factura = 'B'
	  AND c.documento_factura NOT LIKE 'J%'
	  AND c.clt_prov = $3
	GROUP BY
	  c.ejercicio_factura,
	  c.clave_factura,
	  c.documento_factura,
	  c.serie_factura,
	  c.numero_factura
	ORDER BY
	  fecha DESC,
	  factura ASC
	LIMIT $4 OFFSET $5`

// List devuelve las facturas del cliente para los dos ejercicios indicados.
func (r *InvoiceRepo) List(ctx context.Context, cltProv string, ejercicioActual, ejercicioAnterior, limit, offset int) ([]entity.InvoiceSummary, error) {
	rows, err := r.q.Query(ctx, invoicesSQL, ejercicioActual, ejercicioAnterior, cltProv, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: consultar facturas: %v", domain.ErrDataSource, err)
	}
	defer rows.Close()

	var list []entity.InvoiceSummary
	for rows.Next() {
		var s entity.InvoiceSummary
		if err := rows.Scan(
			&s.Ejercicio, &s.Clave, &s.Documento, &s.Serie, &s.Numero,
			&s.Factura, &s.Fecha, &s.BaseImponible, &s.ImporteIVA, &s.ImporteTotal,
		); err != nil {
			return nil, fmt.Errorf("scan factura: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

const invoiceOwnerSQL = `
	SELECT clt_prov
	FROM cab_venta
	WHERE ejercicio_factura = $1
	  AND clave_factura = $2
	  AND documento_factura = $3
	  AND serie_factura = $4
	  AND numero_factura = $5
	LIMIT 1`

// Owner devuelve el clt_prov propietario de la factura, o domain.ErrNotFound.
func (r *InvoiceRepo) Owner(ctx context.Context, ejercicio, clave, documento, serie, numero string) (string, error) {
	var owner string
	err := r.q.QueryRow(ctx, invoiceOwnerSQL, ejercicio, clave, documento, serie, numero).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("%w: consultar propietario de factura: %v", domain.ErrDataSource, err)
	}
	return owner, nil
}
