package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceSummary es una fila del listado de facturas (cabecera + pie agregado)
// del ERP de ventas. Los campos de la clave sirven para construir la
// referencia opaca que el cliente usa para descargar el PDF.
type InvoiceSummary struct {
	Ejercicio int
	Clave     string
	Documento string
	Serie     string
	Numero    string

	Factura       string // etiqueta "documento-numero"
	Fecha         time.Time
	BaseImponible decimal.Decimal
	ImporteIVA    decimal.Decimal
	ImporteTotal  decimal.Decimal
}
