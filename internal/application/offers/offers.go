// Package offers localiza la oferta comercial vigente dentro del
// directorio de artefactos PDF. El fichero sigue el patrón
// oferta_YYYYMMDD.pdf, donde la fecha es el último día de validez.
package offers

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jacpae/portal-api/internal/domain"
)

var offerPattern = regexp.MustCompile(`^oferta_(\d{8})\.pdf$`)

// Offer oferta localizada en disco: nombre del fichero y su caducidad.
type Offer struct {
	Filename string
	Expiry   time.Time
}

// ParseExpiry extrae la caducidad de un nombre de fichero de oferta.
// Devuelve false si el nombre no sigue el patrón o la fecha no existe.
func ParseExpiry(filename string) (time.Time, bool) {
	m := offerPattern.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}, false
	}
	expiry, err := time.Parse("20060102", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return expiry, true
}

// Select elige entre los nombres candidatos la oferta vigente: la de
// caducidad más cercana entre las que aún no han caducado (caducidad
// >= today). Los nombres que no siguen el patrón se ignoran. Devuelve
// false si no hay ninguna vigente.
func Select(names []string, today time.Time) (Offer, bool) {
	// Comparación por día natural, independiente de la zona horaria.
	y, m, d := today.Date()
	today = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var valid []Offer
	for _, name := range names {
		expiry, ok := ParseExpiry(name)
		if !ok {
			continue
		}
		if expiry.Before(today) {
			continue
		}
		valid = append(valid, Offer{Filename: name, Expiry: expiry})
	}
	if len(valid) == 0 {
		return Offer{}, false
	}
	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Expiry.Before(valid[j].Expiry)
	})
	return valid[0], true
}

// Service escanea el subdirectorio de ofertas bajo el directorio base
// de PDFs. El escaneo es por petición: no hay caché, el fichero puede
// cambiar en caliente.
type Service struct {
	baseDir string
	log     zerolog.Logger
	now     func() time.Time
}

// NewService construye el servicio de ofertas.
func NewService(baseDir string, log zerolog.Logger) *Service {
	return &Service{
		baseDir: baseDir,
		log:     log.With().Str("component", "offers").Logger(),
		now:     time.Now,
	}
}

// Current devuelve la oferta vigente y la ruta absoluta de su PDF.
// domain.ErrNotFound si no hay ninguna oferta vigente.
func (s *Service) Current(_ context.Context) (Offer, string, error) {
	dir := filepath.Join(s.baseDir, "offers")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Offer{}, "", domain.ErrNotFound
		}
		s.log.Error().Err(err).Msg("No se pudo leer el directorio de ofertas")
		return Offer{}, "", domain.ErrArtifactNotReady
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}

	offer, ok := Select(names, s.now())
	if !ok {
		return Offer{}, "", domain.ErrNotFound
	}
	return offer, filepath.Join(dir, offer.Filename), nil
}
