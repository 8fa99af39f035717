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

// GiroJob avisa de los efectos de giro que vencen dentro de la ventana de
// antelación de cada perfil.
type GiroJob struct {
	profiles    repository.ProfileStore
	giros       repository.GiroRepository
	writer      *notify.Writer
	defaultDias int
	log         zerolog.Logger
	now         func() time.Time
}

// NewGiroJob construye el job de giros. defaultDias se aplica a los
// perfiles sin antelación propia.
func NewGiroJob(
	profiles repository.ProfileStore,
	giros repository.GiroRepository,
	writer *notify.Writer,
	defaultDias int,
	log zerolog.Logger,
	now func() time.Time,
) *GiroJob {
	return &GiroJob{
		profiles:    profiles,
		giros:       giros,
		writer:      writer,
		defaultDias: defaultDias,
		log:         log.With().Str("job", "giro").Logger(),
		now:         now,
	}
}

var _ Job = (*GiroJob)(nil)

// Name implementa Job.
func (j *GiroJob) Name() string { return "giro" }

// Run recorre los perfiles con aviso de giro activado. Un fallo al listar
// perfiles aborta la ejecución; un fallo sobre un perfil concreto se cuenta
// y se continúa con el resto.
func (j *GiroJob) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	profiles, err := j.profiles.ListGiroProfiles(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("No se pudieron listar los perfiles de giro")
		return sum, err
	}

	today := j.now()
	for _, p := range profiles {
		sum.Profiles++

		dias := j.defaultDias
		if p.DiasAvisoGiro != nil {
			dias = *p.DiasAvisoGiro
		}
		from, to := notify.GiroWindow(today, dias)

		effects, err := j.giros.FetchByCtaContable(ctx, p.CtaContable, from, to)
		if err != nil {
			sum.Errors++
			j.log.Error().Err(err).Str("user_id", p.UserID).Msg("Fallo consultando efectos del perfil")
			continue
		}
		sum.Rows += len(effects)

		for _, effect := range effects {
			res, err := j.writer.Write(ctx, giroCandidate(p.UserID, effect))
			if err != nil {
				sum.Errors++
				j.log.Error().Err(err).Str("user_id", p.UserID).Msg("Fallo insertando aviso de giro")
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
		Msg("Job de giros completado")
	return sum, nil
}

func giroCandidate(userID string, e entity.GiroEffect) *entity.NotificationCandidate {
	importe := e.Importe.StringFixed(2)
	return &entity.NotificationCandidate{
		UserID:    userID,
		Type:      entity.NotificationTypeGiro,
		Title:     "Giro pendiente",
		Body:      fmt.Sprintf("El efecto %s por importe de %s € vence el %s.", e.NumEfecto, importe, e.Vencimiento.Format(dateES)),
		EventDate: e.Vencimiento,
		Data: map[string]any{
			"cta_contable": e.CtaContable,
			"num_efecto":   e.NumEfecto,
			"importe":      importe,
			"vencimiento":  e.Vencimiento.Format("2006-01-02"),
		},
		SourceKey: notify.GiroKey(e.CtaContable, e.NumEfecto, e.Vencimiento),
	}
}
