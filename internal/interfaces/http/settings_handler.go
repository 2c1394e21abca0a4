package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
)

// SettingsHandler exposes the shop profile and the rate/unit catalogue.
type SettingsHandler struct {
	uc *billing.SettingsUseCase
}

// NewSettingsHandler builds the handler.
func NewSettingsHandler(uc *billing.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get GET /api/billing/settings
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.uc.Get())
}
