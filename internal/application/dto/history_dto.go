package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceHistoryQuery query string for GET /api/invoices and /export.
type InvoiceHistoryQuery struct {
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
	Search   string `query:"search" validate:"max=100"`
	Type     string `query:"type" validate:"omitempty,oneof=all GST Non-GST"`
	DateFrom string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
}

// Page returns the pagination part with defaults applied.
func (q InvoiceHistoryQuery) Page() PageRequest {
	p := PageRequest{Limit: q.Limit, Offset: q.Offset}
	p.DefaultPage()
	return p
}

// InvoiceSummary one row of the billing history.
type InvoiceSummary struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	InvoiceType     string          `json:"invoice_type"`
	InvoiceDate     string          `json:"invoice_date"`
	CustomerName    string          `json:"customer_name"`
	CustomerContact string          `json:"customer_contact"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TotalGST        decimal.Decimal `json:"total_gst"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	CreatedAt       time.Time       `json:"created_at"`
}

// InvoiceListResponse page of history rows.
type InvoiceListResponse struct {
	Items []InvoiceSummary `json:"items"`
	Page  PageResponse     `json:"page"`
}

// InvoiceStatsResponse revenue totals shown above the history table.
type InvoiceStatsResponse struct {
	Today     decimal.Decimal `json:"today"`
	ThisMonth decimal.Decimal `json:"this_month"`
	ThisYear  decimal.Decimal `json:"this_year"`
	AsOf      string          `json:"as_of"` // YYYY-MM-DD
}
