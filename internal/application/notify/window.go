// Package notify contiene el cálculo de ventanas de elegibilidad, la
// construcción de claves de deduplicación y el escritor idempotente de
// notificaciones. Las funciones de fechas son puras: sin estado externo.
package notify

import "time"

// GiroWindow devuelve la ventana de aviso de giro [today, today+leadDays],
// ambos extremos inclusive, en días naturales.
func GiroWindow(today time.Time, leadDays int) (from, to time.Time) {
	if leadDays < 0 {
		leadDays = 0
	}
	return today, today.AddDate(0, 0, leadDays)
}

// AddBusinessDays avanza start n días laborables (lunes a viernes).
// Sin calendario de festivos: solo se saltan los fines de semana.
// Con n <= 0 devuelve start sin cambios; total para cualquier entrada.
func AddBusinessDays(start time.Time, n int) time.Time {
	current := start
	for remaining := n; remaining > 0; {
		current = current.AddDate(0, 0, 1)
		wd := current.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			remaining--
		}
	}
	return current
}
