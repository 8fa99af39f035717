package repository

import (
	"context"
	"time"

	"github.com/jacpae/portal-api/internal/domain/entity"
)

// GiroRepository lee efectos pendientes de la contabilidad del ERP.
type GiroRepository interface {
	// FetchByCtaContable devuelve los efectos de una cuenta con vencimiento
	// dentro de la ventana [from, to] (ambos inclusive).
	FetchByCtaContable(ctx context.Context, ctaContable string, from, to time.Time) ([]entity.GiroEffect, error)
}

// RepartoRepository lee rutas programadas de la gestión del ERP.
type RepartoRepository interface {
	// FetchByClient devuelve las rutas programadas del cliente en la fecha
	// objetivo.
	FetchByClient(ctx context.Context, cltProv string, targetDate time.Time) ([]entity.RepartoRoute, error)
}

// InvoiceRepository lee facturas emitidas de la gestión del ERP.
type InvoiceRepository interface {
	// List devuelve las facturas del cliente para los dos ejercicios indicados.
	List(ctx context.Context, cltProv string, ejercicioActual, ejercicioAnterior, limit, offset int) ([]entity.InvoiceSummary, error)
	// Owner devuelve el clt_prov propietario de la factura identificada por su
	// clave completa, o domain.ErrNotFound si no existe.
	Owner(ctx context.Context, ejercicio, clave, documento, serie, numero string) (string, error)
}
