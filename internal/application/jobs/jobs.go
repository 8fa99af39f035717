// Package jobs contiene los tres trabajos programados de notificación:
// giro, reparto y oferta. Cada ejecución es idempotente gracias a las
// claves de deduplicación; relanzar un job sobre los mismos datos no
// produce notificaciones nuevas.
package jobs

import "context"

// Summary resumen de una ejecución para el log.
type Summary struct {
	Profiles int // perfiles elegibles procesados
	Rows     int // filas leídas de las fuentes
	Inserted int
	Deduped  int
	Errors   int // fallos por perfil o por candidata, no abortan la ejecución
}

// Job trabajo ejecutable por el planificador.
type Job interface {
	Name() string
	Run(ctx context.Context) (Summary, error)
}

const dateES = "02/01/2006"
