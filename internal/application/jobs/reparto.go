package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jacpae/portal-api/internal/application/notify"
	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

// RepartoJob avisa de los repartos programados con la antelación de cada
// perfil, contada en días laborables.
type RepartoJob struct {
	profiles    repository.ProfileStore
	repartos    repository.RepartoRepository
	writer      *notify.Writer
	defaultDias int
	log         zerolog.Logger
	now         func() time.Time
}

// NewRepartoJob construye el job de repartos.
func NewRepartoJob(
	profiles repository.ProfileStore,
	repartos repository.RepartoRepository,
	writer *notify.Writer,
	defaultDias int,
	log zerolog.Logger,
	now func() time.Time,
) *RepartoJob {
	return &RepartoJob{
		profiles:    profiles,
		repartos:    repartos,
		writer:      writer,
		defaultDias: defaultDias,
		log:         log.With().Str("job", "reparto").Logger(),
		now:         now,
	}
}

var _ Job = (*RepartoJob)(nil)

// Name implementa Job.
func (j *RepartoJob) Name() string { return "reparto" }

// Run recorre los perfiles con aviso de reparto activado. La fecha objetivo
// se calcula por perfil avanzando sus días de antelación en laborables.
func (j *RepartoJob) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	profiles, err := j.profiles.ListRepartoProfiles(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("No se pudieron listar los perfiles de reparto")
		return sum, err
	}

	today := j.now()
	for _, p := range profiles {
		sum.Profiles++

		dias := j.defaultDias
		if p.DiasAvisoReparto != nil {
			dias = *p.DiasAvisoReparto
		}
		targetDate := notify.AddBusinessDays(today, dias)

		routes, err := j.repartos.FetchByClient(ctx, p.ErpCltProv, targetDate)
		if err != nil {
			sum.Errors++
			j.log.Error().Err(err).Str("user_id", p.UserID).Msg("Fallo consultando rutas del perfil")
			continue
		}
		sum.Rows += len(routes)

		for _, route := range routes {
			res, err := j.writer.Write(ctx, repartoCandidate(p.UserID, route))
			if err != nil {
				sum.Errors++
				j.log.Error().Err(err).Str("user_id", p.UserID).Msg("Fallo insertando aviso de reparto")
				continue
			}
			if res == notify.Inserted {
				sum.Inserted++
			} else {
				sum.Deduped++
			}
		}
	}

	j.log.Info().
		Int("perfiles", sum.Profiles).
		Int("filas", sum.Rows).
		Int("insertadas", sum.Inserted).
		Int("duplicadas", sum.Deduped).
		Int("errores", sum.Errors).
		Msg("Job de repartos completado")
	return sum, nil
}

func repartoCandidate(userID string, r entity.RepartoRoute) *entity.NotificationCandidate {
	return &entity.NotificationCandidate{
		UserID:    userID,
		Type:      entity.NotificationTypeReparto,
		Title:     "🚚 Reparto programado",
		Body:      fmt.Sprintf("Cargamos para su zona el %s.\nRealice su pedido antes de las 23:59 del día anterior.", r.Fecha.Format(dateES)),
		EventDate: r.Fecha,
		Data: map[string]any{
			"clt_prov": r.CltProv,
			"fecha":    r.Fecha.Format("2006-01-02"),
			"ruta":     r.Ruta,
			"subruta":  r.Subruta,
			"grupo":    r.Grupo,
			"subgrupo": r.Subgrupo,
		},
		SourceKey: notify.RepartoKey(r.CltProv, r.Ruta, r.Subruta, r.Fecha),
	}
}
