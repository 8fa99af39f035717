package billing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/repository"
	"github.com/jacpae/portal-api/pkg/invoiceid"
)

// PDFUseCase localiza en disco el PDF de una factura, verificando antes la
// propiedad contra el ERP. El fichero lo deposita un proceso externo; aquí
// solo se resuelve y comprueba la ruta.
type PDFUseCase struct {
	resolver *ProfileResolver
	invoices repository.InvoiceRepository
	baseDir  string
}

// NewPDFUseCase construye el localizador de PDFs de factura.
func NewPDFUseCase(resolver *ProfileResolver, invoices repository.InvoiceRepository, baseDir string) *PDFUseCase {
	return &PDFUseCase{resolver: resolver, invoices: invoices, baseDir: baseDir}
}

// Locate devuelve la ruta absoluta del PDF y el nombre de descarga.
//
// Retorna:
//   - domain.ErrMalformedReference  si la referencia opaca no decodifica.
//   - domain.ErrProfileNotFound / ErrProfileInactive según el perfil.
//   - domain.ErrNotFound            si la factura no existe en el ERP.
//   - domain.ErrOwnershipMismatch   si la factura es de otro cliente.
//   - domain.ErrArtifactNotReady    si el PDF aún no está en disco.
func (uc *PDFUseCase) Locate(ctx context.Context, userID, invoiceID string) (path, filename string, err error) {
	fields, err := invoiceid.Decode(invoiceID)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrMalformedReference, err)
	}

	profile, err := uc.resolver.Resolve(ctx, userID)
	if err != nil {
		return "", "", err
	}

	owner, err := uc.invoices.Owner(ctx, fields.Ejercicio, fields.Clave, fields.Documento, fields.Serie, fields.Numero)
	if err != nil {
		return "", "", err
	}
	// Los códigos de cliente del ERP llegan con relleno de espacios.
	if strings.TrimSpace(owner) != strings.TrimSpace(profile.ErpCltProv) || strings.TrimSpace(owner) == "" {
		return "", "", domain.ErrOwnershipMismatch
	}

	filename = fmt.Sprintf("Factura_%s%s.pdf", fields.Documento, fields.Numero)
	path = filepath.Join(uc.baseDir, fields.Ejercicio, strings.TrimSpace(profile.ErpCltProv), filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", "", domain.ErrArtifactNotReady
		}
		return "", "", fmt.Errorf("billing: comprobar pdf: %w", err)
	}
	return path, filename, nil
}
