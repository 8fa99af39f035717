package entity

import "time"

// Tipos de notificación.
const (
	NotificationTypeGiro    = "giro"
	NotificationTypeReparto = "reparto"
	NotificationTypeOferta  = "oferta"
)

// NotificationCandidate es una notificación pendiente de insertar.
// No se persiste hasta que el escritor la envía al row store; la clave
// SourceKey es la única garantía de no duplicar entregas entre ejecuciones.
type NotificationCandidate struct {
	UserID    string
	Type      string
	Title     string
	Body      string
	EventDate time.Time
	Data      map[string]any
	SourceKey string
}

// Notification es una notificación ya persistida, tal como la devuelve el
// row store. ReadAt pasa de nil a un timestamp una sola vez.
type Notification struct {
	ID        string
	Type      string
	Title     string
	Body      string
	Data      map[string]any
	ReadAt    *time.Time
	CreatedAt time.Time
}
