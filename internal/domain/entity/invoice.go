package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice types.
const (
	InvoiceTypeGST    = "GST"
	InvoiceTypeNonGST = "Non-GST"
)

// Invoice is the header of a bill. Totals are derived from its items and are
// recomputed on every create; they are never edited independently.
type Invoice struct {
	ID              string
	InvoiceNumber   string
	InvoiceType     string // GST | Non-GST
	InvoiceDate     time.Time
	PlaceOfSupply   string // e.g. "19-West Bengal"
	CustomerName    string
	CustomerContact string
	CustomerAddress string
	CustomerGSTIN   string // empty for Non-GST invoices
	Subtotal        decimal.Decimal
	TotalGST        decimal.Decimal
	GrandTotal      decimal.Decimal
	AmountInWords   string
	PDFURL          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsGST reports whether tax applies to the invoice lines.
func (i *Invoice) IsGST() bool {
	return i.InvoiceType == InvoiceTypeGST
}

// ValidInvoiceType reports whether t is one of the supported invoice types.
func ValidInvoiceType(t string) bool {
	return t == InvoiceTypeGST || t == InvoiceTypeNonGST
}
