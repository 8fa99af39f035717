package entity

// Identity representa la identidad verificada extraída de un JWT válido.
// Inmutable; vive solo durante la petición.
type Identity struct {
	Sub   string // UUID del usuario (claim "sub")
	Email string
	Role  string
	AAL   string // nivel de aseguramiento de autenticación (claim "aal")
}
