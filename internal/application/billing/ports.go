package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

// TxRunner runs fn inside one database transaction; an error from fn rolls
// back everything fn wrote.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoiceCache is a read-through cache for assembled invoices.
// Get returns (nil, nil) on a miss.
type InvoiceCache interface {
	Get(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	Set(ctx context.Context, inv *dto.InvoiceResponse) error
	Delete(ctx context.Context, id string) error
}

// InvoicePDFGenerator renders the printable invoice as PDF bytes.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// InvoiceHTMLRenderer renders the printable invoice as a standalone HTML page.
type InvoiceHTMLRenderer interface {
	RenderInvoiceHTML(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// Metrics receives billing events.
type Metrics interface {
	InvoiceCreated(invoiceType string, grandTotal decimal.Decimal)
	InvoiceDeleted()
	NumberConflict()
	CacheLookup(hit bool)
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) InvoiceCreated(string, decimal.Decimal) {}
func (NopMetrics) InvoiceDeleted()                        {}
func (NopMetrics) NumberConflict()                        {}
func (NopMetrics) CacheLookup(bool)                       {}
