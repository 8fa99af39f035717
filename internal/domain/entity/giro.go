package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GiroEffect es un efecto pendiente de giro en la contabilidad del ERP.
type GiroEffect struct {
	CtaContable string
	NumEfecto   string
	Vencimiento time.Time
	Importe     decimal.Decimal
}
