package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/gst-billing-api/internal/application/auth"
	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/history"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/pkg/logger"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	InvoiceUC  *billing.InvoiceUseCase
	DocumentUC *billing.DocumentUseCase
	SettingsUC *billing.SettingsUseCase
	HistoryUC  *history.UseCase
	JWTSecret  string
	Log        *logger.Logger

	ServiceName    string
	HealthCheck    func(ctx context.Context) error // nil: always healthy
	MetricsHandler nethttp.Handler                 // nil: no /metrics route
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.ServiceName, deps.HealthCheck))
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth: login is public, new accounts are created by an admin
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", requireAuth, adminOnly, authHandler.Register)

	// Everything below requires a Bearer token
	protected := api.Group("/", requireAuth, RequireRole(entity.RoleAdmin, entity.RoleCashier))

	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	protected.Get("/billing/settings", settingsHandler.Get)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocumentUC, deps.Log)
	historyHandler := NewHistoryHandler(deps.HistoryUC, deps.Log)

	invoices := protected.Group("/invoices")
	// fixed paths first so they are not captured by /:id
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Get("/next-number", invoiceHandler.NextNumber)
	invoices.Get("/stats", historyHandler.Stats)
	invoices.Get("/export", historyHandler.Export)
	invoices.Get("/", historyHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/print", invoiceHandler.Print)
	invoices.Delete("/:id", adminOnly, invoiceHandler.Delete)
}

func healthHandler(service string, check func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": service})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
