package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jacpae/portal-api/internal/application/notify"
	"github.com/jacpae/portal-api/internal/application/offers"
	"github.com/jacpae/portal-api/internal/domain"
	"github.com/jacpae/portal-api/internal/domain/entity"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

// OfferSource localiza la oferta vigente. Lo implementa offers.Service.
type OfferSource interface {
	Current(ctx context.Context) (offers.Offer, string, error)
}

// OfertaJob difunde la oferta vigente a todos los perfiles activos. La
// clave de deduplicación depende solo de la caducidad, así que cada
// usuario recibe cada oferta como mucho una vez aunque el job se relance.
type OfertaJob struct {
	profiles repository.ProfileStore
	source   OfferSource
	writer   *notify.Writer
	log      zerolog.Logger
}

// NewOfertaJob construye el job de ofertas.
func NewOfertaJob(
	profiles repository.ProfileStore,
	source OfferSource,
	writer *notify.Writer,
	log zerolog.Logger,
) *OfertaJob {
	return &OfertaJob{
		profiles: profiles,
		source:   source,
		writer:   writer,
		log:      log.With().Str("job", "oferta").Logger(),
	}
}

var _ Job = (*OfertaJob)(nil)

// Name implementa Job.
func (j *OfertaJob) Name() string { return "oferta" }

// Run difunde la oferta vigente. Sin oferta vigente la ejecución termina
// en vacío sin error: es el estado normal la mayor parte del año.
func (j *OfertaJob) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	offer, _, err := j.source.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			j.log.Info().Msg("No hay oferta vigente, nada que difundir")
			return sum, nil
		}
		j.log.Error().Err(err).Msg("No se pudo localizar la oferta vigente")
		return sum, err
	}

	userIDs, err := j.profiles.ListActiveUserIDs(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("No se pudieron listar los perfiles activos")
		return sum, err
	}

	for _, userID := range userIDs {
		sum.Profiles++
		res, err := j.writer.Write(ctx, ofertaCandidate(userID, offer.Expiry))
		if err != nil {
			sum.Errors++
			j.log.Error().Err(err).Str("user_id", userID).Msg("Fallo insertando aviso de oferta")
			continue
		}
		if res == notify.Inserted {
			sum.Inserted++
		} else {
			sum.Deduped++
		}
	}

	j.log.Info().
		Int("perfiles", sum.Profiles).
		Int("insertadas", sum.Inserted).
		Int("duplicadas", sum.Deduped).
		Int("errores", sum.Errors).
		Msg("Job de ofertas completado")
	return sum, nil
}

func ofertaCandidate(userID string, expiry time.Time) *entity.NotificationCandidate {
	return &entity.NotificationCandidate{
		UserID:    userID,
		Type:      entity.NotificationTypeOferta,
		Title:     "🎉 Nueva oferta disponible",
		Body:      fmt.Sprintf("Hay una nueva oferta disponible hasta el %s.", expiry.Format(dateES)),
		EventDate: expiry,
		Data: map[string]any{
			"caducidad": expiry.Format("2006-01-02"),
		},
		SourceKey: notify.OfertaKey(expiry),
	}
}
