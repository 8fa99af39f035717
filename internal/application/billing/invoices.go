package billing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jacpae/portal-api/internal/application/dto"
	"github.com/jacpae/portal-api/internal/domain/repository"
	"github.com/jacpae/portal-api/pkg/invoiceid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// InvoiceUseCase lista las facturas del cliente autenticado. El alcance
// temporal es fijo: ejercicio en curso y el anterior.
type InvoiceUseCase struct {
	resolver *ProfileResolver
	invoices repository.InvoiceRepository
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso del listado.
func NewInvoiceUseCase(resolver *ProfileResolver, invoices repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{resolver: resolver, invoices: invoices, now: time.Now}
}

// List devuelve las facturas del usuario, más recientes primero. El límite
// se acota a [1, 200]; fuera de rango se normaliza, no falla.
func (uc *InvoiceUseCase) List(ctx context.Context, userID string, limit, offset int) (*dto.InvoiceListResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	profile, err := uc.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.InvoiceListResponse{Invoices: []dto.InvoiceResponse{}, Limit: limit, Offset: offset}
	if profile.ErpCltProv == "" {
		// Perfil sin código de cliente ERP: no hay facturas que listar.
		return resp, nil
	}

	year := uc.now().Year()
	rows, err := uc.invoices.List(ctx, profile.ErpCltProv, year, year-1, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("billing: listar facturas: %w", err)
	}

	for _, row := range rows {
		resp.Invoices = append(resp.Invoices, dto.InvoiceResponse{
			InvoiceID: invoiceid.Build(invoiceid.Fields{
				Ejercicio: strconv.Itoa(row.Ejercicio),
				Clave:     row.Clave,
				Documento: row.Documento,
				Serie:     row.Serie,
				Numero:    row.Numero,
			}),
			Factura:       row.Factura,
			Fecha:         row.Fecha.Format("2006-01-02"),
			BaseImponible: row.BaseImponible,
			ImporteIVA:    row.ImporteIVA,
			ImporteTotal:  row.ImporteTotal,
		})
	}
	return resp, nil
}
