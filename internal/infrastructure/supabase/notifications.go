package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

var _ repository.NotificationStore = (*Client)(nil)

const notificationsTable = "notifications"

type notificationRow struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      *string        `json:"body"`
	Data      map[string]any `json:"data"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
}

// Insert intenta insertar la notificación. El conflicto de unicidad sobre
// source_key (409, o 400 con mensaje de duplicado según versión de PostgREST)
// se trata como deduplicación correcta, no como error. No hay lectura previa.
func (c *Client) Insert(ctx context.Context, n *entity.NotificationCandidate) (bool, error) {
	payload := map[string]any{
		"user_id":    n.UserID,
		"type":       n.Type,
		"title":      n.Title,
		"body":       n.Body,
		"event_date": n.EventDate.Format("2006-01-02"),
		"data":       n.Data,
		"source_key": n.SourceKey,
	}
	headers := http.Header{"Prefer": {"return=minimal"}}

	resp, err := c.do(ctx, http.MethodPost, notificationsTable, nil, payload, headers)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return true, nil
	case resp.StatusCode == http.StatusConflict:
		return false, nil
	case resp.StatusCode == http.StatusBadRequest:
		body, _ := io.ReadAll(resp.Body)
		lower := strings.ToLower(string(body))
		if strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique") {
			return false, nil
		}
		return false, fmt.Errorf("supabase: insert notifications devolvió 400")
	default:
		return false, fmt.Errorf("supabase: insert notifications devolvió %d", resp.StatusCode)
	}
}

// ListByUser devuelve las notificaciones del usuario, más recientes primero.
// limit se acota a [1,100]; offset a >= 0.
func (c *Client) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Notification, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := url.Values{
		"user_id": {"eq." + userID},
		"select":  {"id,type,title,body,data,read_at,created_at"},
		"order":   {"created_at.desc"},
		"limit":   {strconv.Itoa(limit)},
		"offset":  {strconv.Itoa(offset)},
	}
	var rows []notificationRow
	if err := c.getJSON(ctx, notificationsTable, query, &rows); err != nil {
		return nil, err
	}

	out := make([]entity.Notification, 0, len(rows))
	for _, r := range rows {
		n := entity.Notification{
			ID:        r.ID,
			Type:      r.Type,
			Title:     r.Title,
			Data:      r.Data,
			ReadAt:    r.ReadAt,
			CreatedAt: r.CreatedAt,
		}
		if r.Body != nil {
			n.Body = *r.Body
		}
		out = append(out, n)
	}
	return out, nil
}

// MarkRead marca la notificación como leída. Filtra por id Y user_id: un
// usuario no puede marcar notificaciones ajenas. Devuelve false si el PATCH
// no afectó ninguna fila.
func (c *Client) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	query := url.Values{
		"id":      {"eq." + notificationID},
		"user_id": {"eq." + userID},
		// Solo filas aún no leídas: read_at transiciona una única vez.
		"read_at": {"is.null"},
	}
	payload := map[string]any{
		"read_at": time.Now().UTC().Format(time.RFC3339),
	}
	headers := http.Header{"Prefer": {"return=representation"}}

	resp, err := c.do(ctx, http.MethodPatch, notificationsTable, query, payload, headers)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("supabase: patch notifications devolvió %d", resp.StatusCode)
	}

	var rows []notificationRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return false, fmt.Errorf("supabase: decodificar respuesta del patch: %w", err)
	}
	return len(rows) > 0, nil
}
