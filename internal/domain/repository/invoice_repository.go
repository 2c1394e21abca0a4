package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

// InvoiceFilter narrows the billing history. Zero values mean "no filter".
type InvoiceFilter struct {
	Search   string     // case-insensitive match on customer name or invoice number
	Type     string     // "", GST or Non-GST
	DateFrom *time.Time // inclusive
	DateTo   *time.Time // inclusive
	Limit    int
	Offset   int
}

// InvoiceRepository is the persistence port for invoices and their items.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	// List returns invoices newest first.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	Count(ctx context.Context, filter InvoiceFilter) (int, error)
	// Delete removes the invoice and, by cascade, its items. Returns
	// domain.ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error
	// LastInvoiceNumber returns the number of the most recently created
	// invoice, or "" when there are none.
	LastInvoiceNumber(ctx context.Context) (string, error)
	// SumGrandTotal adds grand_total over invoice_date in [from, to].
	SumGrandTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
