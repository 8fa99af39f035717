// Package supabase implementa los puertos de perfiles y notificaciones sobre
// el row store REST del portal (PostgREST).
//
// Todas las operaciones usan la SERVICE_ROLE_KEY, que salta la seguridad por
// filas del store. La clave jamás debe aparecer en logs ni respuestas; los
// filtros por user_id se aplican siempre en servidor.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jacpae/portal-api/internal/domain"
)

const requestTimeout = 10 * time.Second

// Client cliente REST privilegiado del row store.
type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
	log        zerolog.Logger
}

// NewClient construye el cliente. baseURL es la raíz del proyecto
// (ej. https://proyecto.supabase.co); las rutas REST cuelgan de /rest/v1.
func NewClient(baseURL, serviceKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// do ejecuta la petición con las cabeceras privilegiadas. Errores de red y
// respuestas 5xx se reportan como domain.ErrStoreUnavailable.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any, extra http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("supabase: marshal body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vals := range extra {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Str("tabla", table).Err(err).Msg("supabase: petición fallida")
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if resp.StatusCode >= 500 {
		resp.Body.Close()
		c.log.Error().Str("tabla", table).Int("status", resp.StatusCode).Msg("supabase: error del servicio")
		return nil, fmt.Errorf("%w: status %d", domain.ErrStoreUnavailable, resp.StatusCode)
	}
	return resp, nil
}

// getJSON ejecuta un GET y decodifica la respuesta en out.
func (c *Client) getJSON(ctx context.Context, table string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, table, query, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("supabase: %s devolvió %d", table, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("supabase: decodificar respuesta de %s: %w", table, err)
	}
	return nil
}
