// Package scheduler dispara los jobs de notificación a una hora fija del
// día, en la zona horaria configurada. Sin dependencia de cron externo:
// un bucle comprueba cada intervalo si la hora de disparo ya pasó y una
// marca por fecha evita disparos dobles el mismo día. Cada job corre en
// su propia goroutine: un job lento no retrasa el disparo de los demás.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jacpae/portal-api/internal/application/jobs"
)

const defaultCheckInterval = 20 * time.Second

// Entry un job con su hora de disparo diaria.
type Entry struct {
	Job    jobs.Job
	Hour   int
	Minute int

	lastRunDate string
}

// Scheduler ejecuta las entradas registradas una vez al día cada una.
type Scheduler struct {
	loc           *time.Location
	checkInterval time.Duration
	log           zerolog.Logger
	now           func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	entries   []*Entry
	isRunning bool
}

// New construye el planificador para la zona horaria dada.
func New(loc *time.Location, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		loc:           loc,
		checkInterval: defaultCheckInterval,
		log:           log.With().Str("component", "scheduler").Logger(),
		now:           time.Now,
	}
}

// Register añade un job con su hora de disparo. Debe llamarse antes de Start.
func (s *Scheduler) Register(job jobs.Job, hour, minute int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &Entry{Job: job, Hour: hour, Minute: minute})
	s.log.Info().Str("job", job.Name()).Int("hora", hour).Int("minuto", minute).Msg("Job registrado")
}

// Start arranca el bucle de comprobación. Idempotente.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.log.Info().Str("zona", s.loc.String()).Msg("Planificador arrancado")
}

// Stop detiene el bucle y espera a que termine el job en curso, o hasta
// que el contexto expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info().Msg("Planificador detenido")
		return nil
	case <-ctx.Done():
		s.log.Warn().Msg("El planificador no terminó a tiempo")
		return ctx.Err()
	}
}

func (s *Scheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

func (s *Scheduler) checkAndRun(ctx context.Context) {
	now := s.now().In(s.loc)
	currentDate := now.Format("2006-01-02")
	minuteOfDay := now.Hour()*60 + now.Minute()

	// Una entrada vence cuando su hora de disparo ya pasó hoy y aún no se
	// ha ejecutado hoy. No se exige el minuto exacto: si el proceso estaba
	// ocupado o arrancó tarde, el disparo pendiente se recupera en la
	// siguiente comprobación en vez de perderse hasta mañana.
	s.mu.Lock()
	var due []*Entry
	for _, e := range s.entries {
		if e.lastRunDate == currentDate {
			continue
		}
		if minuteOfDay < e.Hour*60+e.Minute {
			continue
		}
		e.lastRunDate = currentDate
		due = append(due, e)
	}
	s.mu.Unlock()

	// Cada job en su goroutine: los jobs son independientes entre sí y el
	// bucle de comprobación nunca se bloquea con una ejecución larga.
	for _, e := range due {
		entry := e
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.log.Info().Str("job", entry.Job.Name()).Msg("Disparando job programado")
			if _, err := entry.Job.Run(ctx); err != nil {
				s.log.Error().Err(err).Str("job", entry.Job.Name()).Msg("El job terminó con error")
			}
		}()
	}
}
