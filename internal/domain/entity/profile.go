package entity

// CustomerProfile es el perfil de cliente almacenado en el row store externo.
// Solo lectura desde este sistema: el alta y la edición viven en el portal.
type CustomerProfile struct {
	UserID           string
	IsActive         bool
	ErpCltProv       string // código de cliente en el ERP (gestión)
	CtaContable      string // cuenta contable en el ERP (contabilidad)
	AvisarGiro       bool
	DiasAvisoGiro    *int // nil = usar el valor por defecto configurado
	AvisarReparto    bool
	DiasAvisoReparto *int // nil = usar el valor por defecto configurado
}
