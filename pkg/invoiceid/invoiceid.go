// Package invoiceid codifica la clave completa de una factura del ERP en un
// identificador opaco apto para URLs. El cliente móvil lo recibe en el
// listado y lo devuelve tal cual para descargar el PDF; nunca construye la
// clave por su cuenta.
//
// Formato interno: base64url sin padding de
// "ejercicio|clave|documento|serie|numero" (5 campos separados por '|').
// La decodificación es determinista y biyectiva dentro del alfabeto aceptado;
// una entrada malformada falla aquí (400), una clave bien formada pero
// inexistente falla después, en la consulta al ERP (404).
package invoiceid

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const fieldCount = 5

// Fields es la clave completa de una factura en cab_venta.
type Fields struct {
	Ejercicio string
	Clave     string
	Documento string
	Serie     string
	Numero    string
}

// Build codifica la clave de la factura como identificador opaco.
func Build(f Fields) string {
	raw := strings.Join([]string{f.Ejercicio, f.Clave, f.Documento, f.Serie, f.Numero}, "|")
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode recupera la clave de la factura desde el identificador opaco.
// Devuelve error si el identificador no es base64url válido o no contiene
// exactamente 5 campos.
func Decode(id string) (Fields, error) {
	raw, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return Fields{}, fmt.Errorf("invoiceid: no se puede decodificar: %w", err)
	}
	parts := strings.Split(string(raw), "|")
	if len(parts) != fieldCount {
		return Fields{}, fmt.Errorf("invoiceid: se esperaban %d campos, hay %d", fieldCount, len(parts))
	}
	return Fields{
		Ejercicio: parts[0],
		Clave:     parts[1],
		Documento: parts[2],
		Serie:     parts[3],
		Numero:    parts[4],
	}, nil
}
