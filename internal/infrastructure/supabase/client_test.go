package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/infrastructure/supabase"
)

const testServiceKey = "service-role-key-de-test"

func newClient(srv *httptest.Server) *supabase.Client {
	return supabase.NewClient(srv.URL, testServiceKey, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfiles
// ──────────────────────────────────────────────────────────────────────────────

// GetByUserID debe mapear la fila del store al perfil de dominio.
func TestGetByUserID_PerfilEncontrado(t *testing.T) {
	dias := 5
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/customer_profiles", r.URL.Path)
		assert.Equal(t, "eq.uid-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, testServiceKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+testServiceKey, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"user_id":            "uid-1",
			"is_active":          true,
			"erp_clt_prov":       "000962",
			"cta_contable":       "430000962",
			"avisar_giro":        true,
			"dias_aviso_giro":    dias,
			"avisar_reparto":     false,
			"dias_aviso_reparto": nil,
		}})
	}))
	defer srv.Close()

	profile, err := newClient(srv).GetByUserID(context.Background(), "uid-1")
	require.NoError(t, err)

	assert.True(t, profile.IsActive)
	assert.Equal(t, "000962", profile.ErpCltProv)
	assert.Equal(t, "430000962", profile.CtaContable)
	require.NotNil(t, profile.DiasAvisoGiro)
	assert.Equal(t, dias, *profile.DiasAvisoGiro)
	assert.Nil(t, profile.DiasAvisoReparto)
}

// Sin filas el error es perfil-no-encontrado.
func TestGetByUserID_SinFilas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	_, err := newClient(srv).GetByUserID(context.Background(), "uid-1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

// Un 5xx del store es servicio-no-disponible, distinto de no-encontrado.
func TestGetByUserID_StoreCaido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newClient(srv).GetByUserID(context.Background(), "uid-1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrProfileNotFound)
}

// Error de red también es servicio-no-disponible.
func TestGetByUserID_ErrorDeRed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newClient(srv).GetByUserID(context.Background(), "uid-1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// ListGiroProfiles descarta cuentas contables vacías.
func TestListGiroProfiles_FiltraCuentasVacias(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.true", r.URL.Query().Get("is_active"))
		assert.Equal(t, "eq.true", r.URL.Query().Get("avisar_giro"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"user_id": "uid-1", "is_active": true, "avisar_giro": true, "cta_contable": "430000962"},
			{"user_id": "uid-2", "is_active": true, "avisar_giro": true, "cta_contable": ""},
		})
	}))
	defer srv.Close()

	profiles, err := newClient(srv).ListGiroProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "uid-1", profiles[0].UserID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificaciones
// ──────────────────────────────────────────────────────────────────────────────

func sampleCandidate() *entity.NotificationCandidate {
	return &entity.NotificationCandidate{
		UserID:    "uid-1",
		Type:      entity.NotificationTypeGiro,
		Title:     "Giro pendiente",
		Body:      "El efecto R0001 vence pronto.",
		EventDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Data:      map[string]any{"num_efecto": "R0001"},
		SourceKey: "giro:430000962:R0001:2026-03-01",
	}
}

// 201 del store es inserción correcta.
func TestInsert_Insertada(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/notifications", r.URL.Path)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "giro:430000962:R0001:2026-03-01", payload["source_key"])
		assert.Equal(t, "2026-03-01", payload["event_date"])

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	inserted, err := newClient(srv).Insert(context.Background(), sampleCandidate())
	require.NoError(t, err)
	assert.True(t, inserted)
}

// 409 por source_key duplicada es deduplicación, no error.
func TestInsert_Duplicada409(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	inserted, err := newClient(srv).Insert(context.Background(), sampleCandidate())
	require.NoError(t, err)
	assert.False(t, inserted)
}

// Algunas versiones de PostgREST devuelven 400 con el texto de la violación.
func TestInsert_Duplicada400(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"duplicate key value violates unique constraint"}`))
	}))
	defer srv.Close()

	inserted, err := newClient(srv).Insert(context.Background(), sampleCandidate())
	require.NoError(t, err)
	assert.False(t, inserted)
}

// 5xx al insertar es servicio-no-disponible.
func TestInsert_StoreCaido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv).Insert(context.Background(), sampleCandidate())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// ListByUser acota limit a 100 y mapea read_at nulo.
func TestListByUser(t *testing.T) {
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.uid-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"), "limit debe acotarse a 100")
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"id":         "n-1",
			"type":       "oferta",
			"title":      "Nueva oferta disponible",
			"body":       nil,
			"data":       map[string]any{"expiry": "2026-03-01"},
			"read_at":    nil,
			"created_at": created.Format(time.RFC3339),
		}})
	}))
	defer srv.Close()

	list, err := newClient(srv).ListByUser(context.Background(), "uid-1", 500, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "n-1", list[0].ID)
	assert.Equal(t, "", list[0].Body)
	assert.Nil(t, list[0].ReadAt)
	assert.True(t, created.Equal(list[0].CreatedAt))
}

// MarkRead devuelve true solo cuando el PATCH afectó una fila.
func TestMarkRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.n-1", r.URL.Query().Get("id"))
		assert.Equal(t, "eq.uid-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "is.null", r.URL.Query().Get("read_at"))
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"id": "n-1", "type": "giro", "title": "t",
			"read_at":    time.Now().UTC().Format(time.RFC3339),
			"created_at": time.Now().UTC().Format(time.RFC3339),
		}})
	}))
	defer srv.Close()

	updated, err := newClient(srv).MarkRead(context.Background(), "uid-1", "n-1")
	require.NoError(t, err)
	assert.True(t, updated)
}

// PATCH sin filas afectadas (ajena o inexistente) devuelve false.
func TestMarkRead_NoEncontrada(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	updated, err := newClient(srv).MarkRead(context.Background(), "uid-1", "n-ajena")
	require.NoError(t, err)
	assert.False(t, updated)
}
