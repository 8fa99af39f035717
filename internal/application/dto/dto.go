// Package dto define los cuerpos JSON de la API HTTP.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse cuerpo de error uniforme de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MeResponse identidad autenticada más su perfil de cliente.
type MeResponse struct {
	UserID  string          `json:"user_id"`
	Email   string          `json:"email,omitempty"`
	Role    string          `json:"role,omitempty"`
	Profile ProfileResponse `json:"profile"`
}

// ProfileResponse preferencias de aviso del perfil. Los códigos ERP son
// los del propio cliente autenticado.
type ProfileResponse struct {
	ErpCltProv       string `json:"erp_clt_prov,omitempty"`
	CtaContable      string `json:"cta_contable,omitempty"`
	AvisarGiro       bool   `json:"avisar_giro"`
	DiasAvisoGiro    *int   `json:"dias_aviso_giro,omitempty"`
	AvisarReparto    bool   `json:"avisar_reparto"`
	DiasAvisoReparto *int   `json:"dias_aviso_reparto,omitempty"`
}

// InvoiceResponse fila del listado de facturas. InvoiceID es la referencia
// opaca que se devuelve tal cual para descargar el PDF.
type InvoiceResponse struct {
	InvoiceID     string          `json:"invoice_id"`
	Factura       string          `json:"factura"`
	Fecha         string          `json:"fecha"` // YYYY-MM-DD
	BaseImponible decimal.Decimal `json:"base_imponible"`
	ImporteIVA    decimal.Decimal `json:"importe_iva"`
	ImporteTotal  decimal.Decimal `json:"importe_total"`
}

// InvoiceListResponse respuesta paginada del listado.
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// NotificationResponse notificación persistida tal como la ve el cliente.
type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
