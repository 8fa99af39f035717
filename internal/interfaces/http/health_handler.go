package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ReadinessCheck sonda de una dependencia externa.
type ReadinessCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

// HealthHandler expone liveness y readiness. El detalle del fallo se
// registra en el log; la respuesta solo dice qué componente no está listo.
type HealthHandler struct {
	checks  []ReadinessCheck
	timeout time.Duration
	log     zerolog.Logger
}

// NewHealthHandler construye el handler con las sondas dadas.
func NewHealthHandler(checks []ReadinessCheck, timeout time.Duration, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: timeout, log: log.With().Str("component", "health").Logger()}
}

// Health liveness: el proceso atiende peticiones.
// GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready readiness: todas las dependencias responden dentro del plazo.
// GET /health/ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	components := fiber.Map{}
	allOK := true
	for _, check := range h.checks {
		if err := check.Probe(ctx); err != nil {
			allOK = false
			components[check.Name] = "error"
			h.log.Warn().Err(err).Str("componente", check.Name).Msg("Sonda de readiness fallida")
			continue
		}
		components[check.Name] = "ok"
	}

	status := "ok"
	code := fiber.StatusOK
	if !allOK {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "components": components})
}
