package notify

import (
	"fmt"
	"time"
)

const dateISO = "2006-01-02"

// GiroKey clave de deduplicación de un aviso de giro: un aviso por efecto y
// vencimiento, por cuenta contable.
func GiroKey(ctaContable, numEfecto string, vencimiento time.Time) string {
	return fmt.Sprintf("giro:%s:%s:%s", ctaContable, numEfecto, vencimiento.Format(dateISO))
}

// RepartoKey clave de deduplicación de un aviso de reparto: un aviso por
// cliente, ruta, subruta y fecha.
func RepartoKey(cltProv, ruta, subruta string, fecha time.Time) string {
	return fmt.Sprintf("reparto:%s:%s:%s:%s", cltProv, ruta, subruta, fecha.Format(dateISO))
}

// OfertaKey clave de deduplicación de un aviso de oferta. Depende SOLO de la
// fecha de caducidad: la unicidad del store es compuesta (user_id, source_key),
// así que cada usuario activo recibe la oferta como mucho una vez.
func OfertaKey(expiry time.Time) string {
	return fmt.Sprintf("oferta:%s", expiry.Format(dateISO))
}
