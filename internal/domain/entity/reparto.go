package entity

import "time"

// RepartoRoute es una fila de ruta programada para un cliente en la fecha
// objetivo (gestión del ERP).
type RepartoRoute struct {
	CltProv  string
	Fecha    time.Time
	Ruta     string
	Subruta  string
	Grupo    string
	Subgrupo string
}
