package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

// InvoiceDocument is everything a renderer needs to print one invoice.
type InvoiceDocument struct {
	Shop    dto.ShopProfile
	Invoice *entity.Invoice
	Items   []*entity.InvoiceItem
}

// Title is the heading printed above the bill-to block.
func (d *InvoiceDocument) Title() string {
	return "INVOICE " + d.Invoice.InvoiceNumber
}

// Filename is the download name for the PDF rendition.
func (d *InvoiceDocument) Filename() string {
	return fmt.Sprintf("invoice_%s.pdf", d.Invoice.InvoiceNumber)
}

// LongDate is the invoice date as printed, e.g. "Friday 14 February 2025".
func (d *InvoiceDocument) LongDate() string {
	return d.Invoice.InvoiceDate.Format("Monday 2 January 2006")
}

// ShopContactLines are the header lines under the shop name: the address as
// configured (one line per newline), then phone and email when set.
func (d *InvoiceDocument) ShopContactLines() []string {
	var out []string
	for _, l := range strings.Split(d.Shop.Address, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	if d.Shop.Phone != "" {
		out = append(out, "Contact: "+d.Shop.Phone)
	}
	if d.Shop.Email != "" {
		out = append(out, "Email: "+d.Shop.Email)
	}
	return out
}

// TotalQuantity sums the quantity column.
func (d *InvoiceDocument) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.Quantity)
	}
	return total
}

// ShowTaxBreakdown reports whether the per-line CGST/SGST table is printed.
func (d *InvoiceDocument) ShowTaxBreakdown() bool {
	return d.Invoice.IsGST()
}

// ItemDetails returns the small print under an item name: description lines
// ("Key: value" normalised to "Key : value"), then IMEI numbers and serial.
func ItemDetails(it *entity.InvoiceItem) []string {
	var out []string
	for _, line := range strings.Split(it.Description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if parts := strings.Split(line, ":"); len(parts) == 2 {
			line = strings.TrimSpace(parts[0]) + " : " + strings.TrimSpace(parts[1])
		}
		out = append(out, line)
	}
	if it.IMEI1 != "" {
		out = append(out, "IMEI : "+it.IMEI1)
	}
	if it.IMEI2 != "" {
		out = append(out, "IMEI : "+it.IMEI2)
	}
	if it.SerialNumber != "" {
		out = append(out, "S/N : "+it.SerialNumber)
	}
	return out
}
