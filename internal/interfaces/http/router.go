package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jacpae/portal-api/internal/application/billing"
	"github.com/jacpae/portal-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Verifier      TokenVerifier
	Resolver      *billing.ProfileResolver
	InvoiceUC     *billing.InvoiceUseCase
	PDFUC         *billing.PDFUseCase
	Notifications repository.NotificationStore
	Offers        OfferLocator
	Health        *HealthHandler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Salud (público, sin token)
	app.Get("/health", deps.Health.Health)
	app.Get("/health/ready", deps.Health.Ready)

	// Rutas protegidas (requieren Bearer Token del proveedor de identidad)
	api := app.Group("/api", AuthMiddleware(deps.Verifier))

	meHandler := NewMeHandler(deps.Resolver)
	api.Get("/me", meHandler.Me)

	billingHandler := NewBillingHandler(deps.InvoiceUC, deps.PDFUC)
	api.Get("/invoices", billingHandler.List)
	api.Get("/invoices/:invoiceId/pdf", billingHandler.DownloadPDF)

	offersHandler := NewOffersHandler(deps.Offers)
	api.Get("/offers/current", offersHandler.Current)

	notificationsHandler := NewNotificationsHandler(deps.Notifications)
	api.Get("/notifications", notificationsHandler.List)
	api.Patch("/notifications/:id/read", notificationsHandler.MarkRead)
}
