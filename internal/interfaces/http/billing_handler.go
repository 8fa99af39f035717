package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jacpae/portal-api/internal/application/billing"
	"github.com/jacpae/portal-api/internal/application/dto"
)

// BillingHandler maneja el listado de facturas y la descarga de sus PDF.
type BillingHandler struct {
	invoices *billing.InvoiceUseCase
	pdf      *billing.PDFUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(invoices *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *BillingHandler {
	return &BillingHandler{invoices: invoices, pdf: pdf}
}

// List lista las facturas del cliente (ejercicio actual y anterior).
// GET /api/invoices?limit=&offset=
func (h *BillingHandler) List(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	resp, err := h.invoices.List(c.Context(), identity.Sub, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// DownloadPDF sirve el PDF de una factura del propio cliente.
// GET /api/invoices/:invoiceId/pdf
func (h *BillingHandler) DownloadPDF(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	path, filename, err := h.pdf.Locate(c.Context(), identity.Sub, c.Params("invoiceId"))
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.SendFile(path)
}
