package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest one line of the invoice form. SalePrice is the
// tax-inclusive unit price.
type InvoiceItemRequest struct {
	ItemName      string          `json:"item_name" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=1000"`
	Unit          string          `json:"unit" validate:"omitempty,max=10"`
	Quantity      decimal.Decimal `json:"quantity"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MRP           decimal.Decimal `json:"mrp"`
	HSNSACCode    string          `json:"hsn_sac_code" validate:"max=20"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	SerialNumber  string          `json:"serial_number,omitempty" validate:"max=100"`
	IMEI1         string          `json:"imei1,omitempty" validate:"omitempty,numeric,max=20"`
	IMEI2         string          `json:"imei2,omitempty" validate:"omitempty,numeric,max=20"`
}

// CreateInvoiceRequest body for POST /api/invoices.
type CreateInvoiceRequest struct {
	InvoiceType     string               `json:"invoice_type" validate:"required,oneof=GST Non-GST"`
	InvoiceDate     string               `json:"invoice_date,omitempty" validate:"omitempty,datetime=2006-01-02"` // defaults to today
	PlaceOfSupply   string               `json:"place_of_supply" validate:"required,max=100"`
	CustomerName    string               `json:"customer_name" validate:"required,max=200"`
	CustomerContact string               `json:"customer_contact" validate:"required,max=50"`
	CustomerAddress string               `json:"customer_address" validate:"required,max=500"`
	CustomerGSTIN   string               `json:"customer_gstin,omitempty" validate:"omitempty,len=15,alphanum"`
	Items           []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PreviewInvoiceRequest body for POST /api/invoices/preview. Lines are not
// validated field by field: the form previews totals while still being typed.
type PreviewInvoiceRequest struct {
	InvoiceType string               `json:"invoice_type" validate:"required,oneof=GST Non-GST"`
	Items       []InvoiceItemRequest `json:"items"`
}

// LineBreakdown derived amounts for one previewed line.
type LineBreakdown struct {
	ItemName      string          `json:"item_name"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	BasePrice     decimal.Decimal `json:"base_price"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// InvoicePreviewResponse totals computed without persisting anything.
type InvoicePreviewResponse struct {
	InvoiceType   string          `json:"invoice_type"`
	Lines         []LineBreakdown `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalGST      decimal.Decimal `json:"total_gst"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	AmountInWords string          `json:"amount_in_words"`
}

// InvoiceItemResponse stored line.
type InvoiceItemResponse struct {
	ID            string          `json:"id"`
	ItemName      string          `json:"item_name"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MRP           decimal.Decimal `json:"mrp"`
	HSNSACCode    string          `json:"hsn_sac_code"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	SerialNumber  string          `json:"serial_number,omitempty"`
	IMEI1         string          `json:"imei1,omitempty"`
	IMEI2         string          `json:"imei2,omitempty"`
	BasePrice     decimal.Decimal `json:"base_price"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// InvoiceResponse invoice with its lines for GET /api/invoices/:id.
type InvoiceResponse struct {
	ID              string                `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	InvoiceType     string                `json:"invoice_type"`
	InvoiceDate     string                `json:"invoice_date"` // YYYY-MM-DD
	PlaceOfSupply   string                `json:"place_of_supply"`
	CustomerName    string                `json:"customer_name"`
	CustomerContact string                `json:"customer_contact"`
	CustomerAddress string                `json:"customer_address"`
	CustomerGSTIN   string                `json:"customer_gstin,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TotalGST        decimal.Decimal       `json:"total_gst"`
	GrandTotal      decimal.Decimal       `json:"grand_total"`
	AmountInWords   string                `json:"amount_in_words"`
	PDFURL          string                `json:"pdf_url,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []InvoiceItemResponse `json:"items"`
}

// NextNumberResponse body for GET /api/invoices/next-number.
type NextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

// ShopProfile seller block printed on every invoice.
type ShopProfile struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Phone   string   `json:"phone"`
	Email   string   `json:"email,omitempty"`
	GSTIN   string   `json:"gstin"`
	State   string   `json:"state"`
	Terms   []string `json:"terms"`
	Bank    []string `json:"bank,omitempty"`
}

// BillingSettingsResponse body for GET /api/billing/settings.
type BillingSettingsResponse struct {
	Shop         ShopProfile `json:"shop"`
	NumberPrefix string      `json:"number_prefix"`
	GSTRates     []string    `json:"gst_rates"`
	Units        []string    `json:"units"`
	DefaultRate  string      `json:"default_rate"`
	DefaultUnit  string      `json:"default_unit"`
}
