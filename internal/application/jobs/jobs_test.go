package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacpae/portal-api/internal/application/jobs"
	"github.com/jacpae/portal-api/internal/application/notify"
	"github.com/jacpae/portal-api/internal/application/offers"
	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(n int) *int { return &n }

// fakeProfiles es un ProfileStore en memoria.
type fakeProfiles struct {
	giro    []entity.CustomerProfile
	reparto []entity.CustomerProfile
	active  []string
	err     error
}

func (f *fakeProfiles) GetByUserID(context.Context, string) (*entity.CustomerProfile, error) {
	return nil, domain.ErrProfileNotFound
}

func (f *fakeProfiles) ListGiroProfiles(context.Context) ([]entity.CustomerProfile, error) {
	return f.giro, f.err
}

func (f *fakeProfiles) ListRepartoProfiles(context.Context) ([]entity.CustomerProfile, error) {
	return f.reparto, f.err
}

func (f *fakeProfiles) ListActiveUserIDs(context.Context) ([]string, error) {
	return f.active, f.err
}

// fakeNotifications emula la unicidad compuesta (user_id, source_key).
type fakeNotifications struct {
	seen     map[string]bool
	inserted []entity.NotificationCandidate
	failFor  string // user_id que siempre falla
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{seen: map[string]bool{}}
}

func (f *fakeNotifications) Insert(_ context.Context, n *entity.NotificationCandidate) (bool, error) {
	if f.failFor != "" && n.UserID == f.failFor {
		return false, errors.New("store caído")
	}
	key := n.UserID + "|" + n.SourceKey
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	f.inserted = append(f.inserted, *n)
	return true, nil
}

func (f *fakeNotifications) ListByUser(context.Context, string, int, int) ([]entity.Notification, error) {
	return nil, nil
}

func (f *fakeNotifications) MarkRead(context.Context, string, string) (bool, error) {
	return false, nil
}

// fakeGiros devuelve efectos y registra las ventanas consultadas.
type fakeGiros struct {
	effects map[string][]entity.GiroEffect
	windows map[string][2]time.Time
	errFor  string
}

func (f *fakeGiros) FetchByCtaContable(_ context.Context, cta string, from, to time.Time) ([]entity.GiroEffect, error) {
	if f.errFor == cta {
		return nil, errors.New("erp caído")
	}
	if f.windows == nil {
		f.windows = map[string][2]time.Time{}
	}
	f.windows[cta] = [2]time.Time{from, to}
	return f.effects[cta], nil
}

type fakeRepartos struct {
	routes map[string][]entity.RepartoRoute
	dates  map[string]time.Time
}

func (f *fakeRepartos) FetchByClient(_ context.Context, cltProv string, targetDate time.Time) ([]entity.RepartoRoute, error) {
	if f.dates == nil {
		f.dates = map[string]time.Time{}
	}
	f.dates[cltProv] = targetDate
	return f.routes[cltProv], nil
}

type fakeOffers struct {
	offer offers.Offer
	err   error
}

func (f *fakeOffers) Current(context.Context) (offers.Offer, string, error) {
	return f.offer, "", f.err
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGiroJob_InsertaYEsIdempotente(t *testing.T) {
	profiles := &fakeProfiles{giro: []entity.CustomerProfile{
		{UserID: "uid-1", CtaContable: "430000962", AvisarGiro: true, DiasAvisoGiro: intPtr(7)},
	}}
	giros := &fakeGiros{effects: map[string][]entity.GiroEffect{
		"430000962": {
			{CtaContable: "430000962", NumEfecto: "R0001", Vencimiento: day(2026, 2, 20), Importe: decimal.RequireFromString("120.50")},
			{CtaContable: "430000962", NumEfecto: "R0002", Vencimiento: day(2026, 2, 24), Importe: decimal.RequireFromString("85.00")},
		},
	}}
	store := newFakeNotifications()
	job := jobs.NewGiroJob(profiles, giros, notify.NewWriter(store), 7, zerolog.Nop(), fixedNow(day(2026, 2, 18)))

	sum, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs.Summary{Profiles: 1, Rows: 2, Inserted: 2}, sum)

	// La ventana consultada respeta la antelación del perfil.
	window := giros.windows["430000962"]
	assert.Equal(t, day(2026, 2, 18), window[0])
	assert.Equal(t, day(2026, 2, 25), window[1])

	// El cuerpo lleva el importe con dos decimales y la fecha en formato local.
	require.Len(t, store.inserted, 2)
	assert.Equal(t, "Giro pendiente", store.inserted[0].Title)
	assert.Equal(t, "El efecto R0001 por importe de 120.50 € vence el 20/02/2026.", store.inserted[0].Body)
	assert.Equal(t, "giro:430000962:R0001:2026-02-20", store.inserted[0].SourceKey)
	assert.Equal(t, "430000962", store.inserted[0].Data["cta_contable"])

	// Segunda ejecución sobre los mismos datos: todo duplicado, nada nuevo.
	sum, err = job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs.Summary{Profiles: 1, Rows: 2, Deduped: 2}, sum)
	assert.Len(t, store.inserted, 2)
}

// Sin antelación propia se usa el valor por defecto.
func TestGiroJob_AntelacionPorDefecto(t *testing.T) {
	profiles := &fakeProfiles{giro: []entity.CustomerProfile{
		{UserID: "uid-1", CtaContable: "430000001", AvisarGiro: true},
	}}
	giros := &fakeGiros{}
	job := jobs.NewGiroJob(profiles, giros, notify.NewWriter(newFakeNotifications()), 3, zerolog.Nop(), fixedNow(day(2026, 2, 18)))

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	window := giros.windows["430000001"]
	assert.Equal(t, day(2026, 2, 21), window[1])
}

// Un perfil que falla no arrastra a los demás.
func TestGiroJob_FalloPorPerfilContinua(t *testing.T) {
	profiles := &fakeProfiles{giro: []entity.CustomerProfile{
		{UserID: "uid-1", CtaContable: "430000001", AvisarGiro: true},
		{UserID: "uid-2", CtaContable: "430000002", AvisarGiro: true},
	}}
	giros := &fakeGiros{
		errFor: "430000001",
		effects: map[string][]entity.GiroEffect{
			"430000002": {{CtaContable: "430000002", NumEfecto: "S0001", Vencimiento: day(2026, 2, 19), Importe: decimal.New(10, 0)}},
		},
	}
	job := jobs.NewGiroJob(profiles, giros, notify.NewWriter(newFakeNotifications()), 7, zerolog.Nop(), fixedNow(day(2026, 2, 18)))

	sum, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs.Summary{Profiles: 2, Rows: 1, Inserted: 1, Errors: 1}, sum)
}

// Un fallo al listar perfiles sí aborta la ejecución.
func TestGiroJob_FalloDelStoreDePerfiles(t *testing.T) {
	profiles := &fakeProfiles{err: domain.ErrStoreUnavailable}
	job := jobs.NewGiroJob(profiles, &fakeGiros{}, notify.NewWriter(newFakeNotifications()), 7, zerolog.Nop(), fixedNow(day(2026, 2, 18)))

	_, err := job.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestRepartoJob_FechaObjetivoEnLaborables(t *testing.T) {
	// Viernes + 1 laborable = lunes.
	profiles := &fakeProfiles{reparto: []entity.CustomerProfile{
		{UserID: "uid-1", ErpCltProv: "000962", AvisarReparto: true, DiasAvisoReparto: intPtr(1)},
	}}
	repartos := &fakeRepartos{routes: map[string][]entity.RepartoRoute{
		"000962": {{CltProv: "000962", Fecha: day(2026, 2, 23), Ruta: "12", Subruta: "03", Grupo: "A", Subgrupo: "B"}},
	}}
	store := newFakeNotifications()
	job := jobs.NewRepartoJob(profiles, repartos, notify.NewWriter(store), 1, zerolog.Nop(), fixedNow(day(2026, 2, 20)))

	sum, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, day(2026, 2, 23), repartos.dates["000962"])
	assert.Equal(t, jobs.Summary{Profiles: 1, Rows: 1, Inserted: 1}, sum)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "🚚 Reparto programado", store.inserted[0].Title)
	assert.Equal(t, "Cargamos para su zona el 23/02/2026.\nRealice su pedido antes de las 23:59 del día anterior.", store.inserted[0].Body)
	assert.Equal(t, "reparto:000962:12:03:2026-02-23", store.inserted[0].SourceKey)
	assert.Equal(t, "000962", store.inserted[0].Data["clt_prov"])

	// Relanzar no duplica.
	sum, err = job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs.Summary{Profiles: 1, Rows: 1, Deduped: 1}, sum)
}

func TestOfertaJob_DifundeATodosLosActivos(t *testing.T) {
	profiles := &fakeProfiles{active: []string{"uid-1", "uid-2", "uid-3"}}
	source := &fakeOffers{offer: offers.Offer{Filename: "oferta_20260301.pdf", Expiry: day(2026, 3, 1)}}
	store := newFakeNotifications()
	job := jobs.NewOfertaJob(profiles, source, notify.NewWriter(store), zerolog.Nop())

	sum, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs.Summary{Profiles: 3, Inserted: 3}, sum)

	require.Len(t, store.inserted, 3)
	assert.Equal(t, "🎉 Nueva oferta disponible", store.inserted[0].Title)
	assert.Equal(t, "Hay una nueva oferta disponible hasta el 01/03/2026.", store.inserted[0].Body)
	assert.Equal(t, "oferta:2026-03-01", store.inserted[0].SourceKey)

	// Misma oferta, segunda pasada: todo duplicado.
	sum, err = job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs.Summary{Profiles: 3, Deduped: 3}, sum)
}

// Sin oferta vigente la ejecución termina en vacío sin error.
func TestOfertaJob_SinOfertaVigente(t *testing.T) {
	profiles := &fakeProfiles{active: []string{"uid-1"}}
	source := &fakeOffers{err: domain.ErrNotFound}
	job := jobs.NewOfertaJob(profiles, source, notify.NewWriter(newFakeNotifications()), zerolog.Nop())

	sum, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs.Summary{}, sum)
}

// Un usuario que falla no impide difundir al resto.
func TestOfertaJob_FalloPorUsuarioContinua(t *testing.T) {
	profiles := &fakeProfiles{active: []string{"uid-1", "uid-2"}}
	source := &fakeOffers{offer: offers.Offer{Filename: "oferta_20260301.pdf", Expiry: day(2026, 3, 1)}}
	store := newFakeNotifications()
	store.failFor = "uid-1"
	job := jobs.NewOfertaJob(profiles, source, notify.NewWriter(store), zerolog.Nop())

	sum, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jobs.Summary{Profiles: 2, Inserted: 1, Errors: 1}, sum)
}
