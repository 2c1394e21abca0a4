package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/pkg/logger"
)

// InvoiceHandler serves the invoice form, single invoices and their printable
// renditions.
type InvoiceHandler struct {
	invoices  *billing.InvoiceUseCase
	documents *billing.DocumentUseCase
	errors    errorMapper
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, documents *billing.DocumentUseCase, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, documents: documents, errors: newErrorMapper(log)}
}

// Preview computes totals and the amount in words for a draft.
// POST /api/invoices/preview
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewInvoiceRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.invoices.Preview(in)
	if err != nil {
		return h.errors.write(c, err)
	}
	return c.JSON(out)
}

// Create saves an invoice with its items under the next invoice number.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.invoices.Create(c.UserContext(), in)
	if err != nil {
		return h.errors.write(c, err)
	}
	c.Location("/api/invoices/" + out.ID)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// NextNumber returns the number the next saved invoice will most likely get.
// GET /api/invoices/next-number
func (h *InvoiceHandler) NextNumber(c *fiber.Ctx) error {
	out, err := h.invoices.NextNumber(c.UserContext())
	if err != nil {
		return h.errors.write(c, err)
	}
	return c.JSON(out)
}

// GetByID returns one invoice with its items.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.invoices.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errors.write(c, err)
	}
	return c.JSON(out)
}

// PDF downloads the invoice as a PDF.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	body, filename, err := h.documents.PDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errors.write(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

// Print returns a standalone HTML page that opens the print dialog.
// GET /api/invoices/:id/print
func (h *InvoiceHandler) Print(c *fiber.Ctx) error {
	body, err := h.documents.HTML(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errors.write(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(body)
}

// Delete removes an invoice and its items (admin only).
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errors.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
