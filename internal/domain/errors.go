package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// Autenticación
	ErrInvalidToken   = errors.New("token inválido")
	ErrExpiredToken   = errors.New("token expirado")
	ErrKeyUnavailable = errors.New("claves de firma no disponibles")

	// Perfil de cliente
	ErrProfileNotFound  = errors.New("perfil de cliente no encontrado")
	ErrProfileInactive  = errors.New("perfil de cliente inactivo")
	ErrStoreUnavailable = errors.New("servicio de perfiles/notificaciones no disponible")

	// Facturas y ofertas
	ErrMalformedReference = errors.New("referencia de factura inválida")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrOwnershipMismatch  = errors.New("la factura no pertenece al cliente")
	ErrArtifactNotReady   = errors.New("el PDF de la factura aún no está generado")

	// Fuentes de datos ERP
	ErrDataSource = errors.New("error en la fuente de datos")
)
