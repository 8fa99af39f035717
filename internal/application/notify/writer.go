package notify

import (
	"context"
	"fmt"

	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

// Result resultado de un intento de escritura. El duplicado es una variante
// de éxito de primera clase, no un error: significa que una ejecución
// anterior ya entregó esta notificación.
type Result int

const (
	Inserted Result = iota
	Duplicate
)

// String para los logs de resumen de los jobs.
func (r Result) String() string {
	if r == Duplicate {
		return "duplicada"
	}
	return "insertada"
}

// Writer inserta candidatas de forma idempotente apoyándose en la constraint
// de unicidad del store sobre source_key.
type Writer struct {
	store repository.NotificationStore
}

// NewWriter construye el escritor.
func NewWriter(store repository.NotificationStore) *Writer {
	return &Writer{store: store}
}

// Write intenta insertar la candidata. Un conflicto de unicidad es Duplicate;
// cualquier otro fallo del store es un error de ESA candidata y no debe
// abortar el resto del lote.
func (w *Writer) Write(ctx context.Context, candidate *entity.NotificationCandidate) (Result, error) {
	if candidate.SourceKey == "" {
		return 0, fmt.Errorf("notify: candidata sin source_key")
	}
	inserted, err := w.store.Insert(ctx, candidate)
	if err != nil {
		return 0, err
	}
	if !inserted {
		return Duplicate, nil
	}
	return Inserted, nil
}
