package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/application/history"
	"github.com/jhoicas/gst-billing-api/pkg/logger"
)

// HistoryHandler serves the billing history table, its revenue stats and exports.
type HistoryHandler struct {
	uc     *history.UseCase
	errors errorMapper
}

// NewHistoryHandler builds the handler.
func NewHistoryHandler(uc *history.UseCase, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{uc: uc, errors: newErrorMapper(log)}
}

// List returns one page of invoices, newest first.
// GET /api/invoices?search=&type=all|GST|Non-GST&date_from=&date_to=&limit=&offset=
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceHistoryQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return h.errors.write(c, err)
	}
	return c.JSON(out)
}

// Stats returns revenue for today, this month and this year.
// GET /api/invoices/stats
func (h *HistoryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return h.errors.write(c, err)
	}
	return c.JSON(out)
}

// Export downloads every invoice matching the filters as CSV or XLSX.
// GET /api/invoices/export?format=csv|xlsx
func (h *HistoryHandler) Export(c *fiber.Ctx) error {
	var q dto.InvoiceHistoryQuery
	if ok, err := parseQuery(c, &q); !ok {
		return err
	}
	body, filename, contentType, err := h.uc.Export(c.UserContext(), q, strings.TrimSpace(c.Query("format")))
	if err != nil {
		return h.errors.write(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}
