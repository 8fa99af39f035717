// Package jwks mantiene una caché del set de claves públicas de firma
// (formato JWKS) publicado por el proveedor de identidad.
//
// La caché se refresca completa al expirar el TTL o al pedir un kid que no
// está presente. Las llamadas concurrentes comparten un único fetch en vuelo
// (singleflight). Si el refresco falla pero existe un set anterior, se sirve
// el set antiguo; sin set utilizable el error es domain.ErrKeyUnavailable.
package jwks

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jacpae/portal-api/internal/domain"
)

const fetchTimeout = 10 * time.Second

// Cache caché de claves públicas indexada por kid.
type Cache struct {
	url          string
	ttl          time.Duration
	readyTimeout time.Duration
	client       *http.Client
	log          zerolog.Logger

	mu        sync.RWMutex
	keys      map[string]crypto.PublicKey
	fetchedAt time.Time

	group singleflight.Group
}

// New construye la caché. ttl controla la vigencia del set completo;
// readyTimeout es el timeout corto del probe de readiness.
func New(url string, ttl, readyTimeout time.Duration, log zerolog.Logger) *Cache {
	return &Cache{
		url:          url,
		ttl:          ttl,
		readyTimeout: readyTimeout,
		client:       &http.Client{Timeout: fetchTimeout},
		log:          log,
	}
}

// Key devuelve la clave pública asociada al kid. Refresca el set si el TTL
// expiró o si el kid no está; si tras un refresco correcto sigue sin estar,
// devuelve domain.ErrKeyUnavailable.
func (c *Cache) Key(ctx context.Context, kid string) (crypto.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	fresh := c.keys != nil && time.Since(c.fetchedAt) < c.ttl
	c.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if err := c.refresh(ctx); err != nil {
		c.mu.RLock()
		key, ok = c.keys[kid]
		c.mu.RUnlock()
		if ok {
			// Set antiguo pero utilizable: se sirve sin cortar el tráfico.
			c.log.Warn().Err(err).Msg("jwks: fallo al refrescar, sirviendo set anterior")
			return key, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyUnavailable, err)
	}

	c.mu.RLock()
	key, ok = c.keys[kid]
	c.mu.RUnlock()
	if !ok {
		return nil, domain.ErrKeyUnavailable
	}
	return key, nil
}

// Invalidate descarta el set cacheado; el siguiente Key fuerza un fetch.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.keys = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

// Ready comprueba que el endpoint de claves responde, con su propio timeout
// corto para no colgar el probe de readiness.
func (c *Cache) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.readyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("jwks: endpoint no alcanzable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks: el endpoint devolvió %d", resp.StatusCode)
	}
	return nil
}

// refresh descarga y reemplaza el set completo. Las llamadas concurrentes
// comparten un único fetch en vuelo.
func (c *Cache) refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("jwks", func() (any, error) {
		keys, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.keys = keys
		c.fetchedAt = time.Now()
		c.mu.Unlock()
		c.log.Debug().Int("claves", len(keys)).Msg("jwks: set refrescado")
		return nil, nil
	})
	return err
}

func (c *Cache) fetch(ctx context.Context) (map[string]crypto.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch jwks: status %d", resp.StatusCode)
	}

	var doc struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse jwks: %w", err)
	}

	keys := make(map[string]crypto.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		pub, err := k.publicKey()
		if err != nil {
			// Una clave no soportada no invalida el resto del set.
			c.log.Warn().Str("kid", k.Kid).Err(err).Msg("jwks: clave ignorada")
			continue
		}
		keys[k.Kid] = pub
	}
	return keys, nil
}

// jwk es una entrada del documento JWKS (solo los campos que usamos).
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

func (k jwk) publicKey() (crypto.PublicKey, error) {
	switch k.Kty {
	case "RSA":
		n, err := base64BigInt(k.N)
		if err != nil {
			return nil, fmt.Errorf("campo n: %w", err)
		}
		e, err := base64BigInt(k.E)
		if err != nil {
			return nil, fmt.Errorf("campo e: %w", err)
		}
		return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
	case "EC":
		var curve elliptic.Curve
		switch k.Crv {
		case "P-256":
			curve = elliptic.P256()
		case "P-384":
			curve = elliptic.P384()
		case "P-521":
			curve = elliptic.P521()
		default:
			return nil, fmt.Errorf("curva no soportada: %s", k.Crv)
		}
		x, err := base64BigInt(k.X)
		if err != nil {
			return nil, fmt.Errorf("campo x: %w", err)
		}
		y, err := base64BigInt(k.Y)
		if err != nil {
			return nil, fmt.Errorf("campo y: %w", err)
		}
		return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
	default:
		return nil, fmt.Errorf("kty no soportado: %s", k.Kty)
	}
}

func base64BigInt(s string) (*big.Int, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
