package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jacpae/portal-api/internal/application/billing"
	"github.com/jacpae/portal-api/internal/application/jobs"
	"github.com/jacpae/portal-api/internal/application/notify"
	"github.com/jacpae/portal-api/internal/application/offers"
	"github.com/jacpae/portal-api/internal/auth"
	"github.com/jacpae/portal-api/internal/infrastructure/erp"
	"github.com/jacpae/portal-api/internal/infrastructure/jwks"
	"github.com/jacpae/portal-api/internal/infrastructure/scheduler"
	"github.com/jacpae/portal-api/internal/infrastructure/supabase"
	httpRouter "github.com/jacpae/portal-api/internal/interfaces/http"
	"github.com/jacpae/portal-api/pkg/config"
	"github.com/jacpae/portal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	zl := log.Zerolog()
	zl.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Pools de solo lectura contra el espejo del ERP. Conexión perezosa:
	// el ERP puede estar caído en el arranque sin tumbar la API.
	ventasPool, err := erp.NewPool(cfg.Ventas)
	if err != nil {
		zl.Fatal().Err(err).Msg("configuración del pool de gestión")
	}
	defer ventasPool.Close()

	finanPool, err := erp.NewPool(cfg.Finan)
	if err != nil {
		zl.Fatal().Err(err).Msg("configuración del pool de contabilidad")
	}
	defer finanPool.Close()

	// Row store de perfiles y notificaciones.
	store := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey, zl)

	// Verificación de tokens contra el set de claves públicas cacheado.
	keyCache := jwks.New(cfg.Supabase.JWKSURL, cfg.Supabase.JWKSCacheTTL, cfg.Supabase.ReadyTimeout, zl)
	verifier := auth.NewVerifier(keyCache, cfg.Supabase.Issuer, cfg.Supabase.Audience)

	// Casos de uso.
	resolver := billing.NewProfileResolver(store)
	invoiceRepo := erp.NewInvoiceRepository(ventasPool)
	invoiceUC := billing.NewInvoiceUseCase(resolver, invoiceRepo)
	pdfUC := billing.NewPDFUseCase(resolver, invoiceRepo, cfg.PDF.BaseDir)
	offersSvc := offers.NewService(cfg.PDF.BaseDir, zl)

	// Jobs programados.
	loc, err := time.LoadLocation(cfg.Jobs.Timezone)
	if err != nil {
		zl.Fatal().Err(err).Str("zona", cfg.Jobs.Timezone).Msg("zona horaria inválida")
	}
	nowLocal := func() time.Time { return time.Now().In(loc) }
	writer := notify.NewWriter(store)

	sched := scheduler.New(loc, zl)
	if cfg.Jobs.Giro.Enabled {
		giroRepo := erp.NewGiroRepository(finanPool)
		job := jobs.NewGiroJob(store, giroRepo, writer, cfg.Jobs.Giro.DefaultDias, zl, nowLocal)
		sched.Register(job, cfg.Jobs.Giro.Hour, cfg.Jobs.Giro.Minute)
	}
	if cfg.Jobs.Reparto.Enabled {
		repartoRepo := erp.NewRepartoRepository(ventasPool)
		job := jobs.NewRepartoJob(store, repartoRepo, writer, cfg.Jobs.Reparto.DefaultDias, zl, nowLocal)
		sched.Register(job, cfg.Jobs.Reparto.Hour, cfg.Jobs.Reparto.Minute)
	}
	if cfg.Jobs.Oferta.Enabled {
		job := jobs.NewOfertaJob(store, offersSvc, writer, zl)
		sched.Register(job, cfg.Jobs.Oferta.Hour, cfg.Jobs.Oferta.Minute)
	}
	sched.Start(context.Background())

	// Sondas de readiness: ambas bases del ERP y la caché de claves.
	health := httpRouter.NewHealthHandler([]httpRouter.ReadinessCheck{
		{Name: "erp_ventas", Probe: ventasPool.Ping},
		{Name: "erp_finan", Probe: finanPool.Ping},
		{Name: "jwks", Probe: keyCache.Ready},
	}, cfg.Supabase.ReadyTimeout, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Verifier:      verifier,
		Resolver:      resolver,
		InvoiceUC:     invoiceUC,
		PDFUC:         pdfUC,
		Notifications: store,
		Offers:        offersSvc,
		Health:        health,
	})

	// Arranque y apagado ordenado.
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			zl.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	zl.Info().Str("addr", cfg.HTTP.Addr()).Msg("API escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info().Msg("señal de apagado recibida")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		zl.Warn().Err(err).Msg("apagado del planificador")
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Error().Err(err).Msg("apagado del servidor HTTP")
	}
	zl.Info().Msg("aplicación detenida")
}
