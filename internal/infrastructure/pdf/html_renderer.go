package pdf

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/pkg/inr"
)

//go:embed templates/invoice.html
var templateFS embed.FS

var invoiceTemplate = template.Must(template.New("invoice.html").Funcs(template.FuncMap{
	"upper":  strings.ToUpper,
	"dash":   orDash,
	"money":  inr.FormatWithSymbol,
	"amount": inr.Format,
	"mrp": func(d decimal.Decimal) string {
		if !d.IsPositive() {
			return "-"
		}
		return inr.FormatWithSymbol(d)
	},
}).ParseFS(templateFS, "templates/invoice.html"))

var _ appbilling.InvoiceHTMLRenderer = (*HTMLRenderer)(nil)

// HTMLRenderer implements billing.InvoiceHTMLRenderer: a standalone page
// the browser can print directly.
type HTMLRenderer struct {
	autoPrint bool
}

// NewHTMLRenderer builds the renderer. With autoPrint the page opens the
// print dialog once loaded.
func NewHTMLRenderer(autoPrint bool) *HTMLRenderer {
	return &HTMLRenderer{autoPrint: autoPrint}
}

type htmlLine struct {
	No      int
	Item    *entity.InvoiceItem
	Details []string
}

type htmlView struct {
	*appbilling.InvoiceDocument
	Title            string
	Date             string
	ContactLines     []string
	Lines            []htmlLine
	TotalQuantity    decimal.Decimal
	ShowTaxBreakdown bool
	Zero             decimal.Decimal
	AutoPrint        bool
}

// RenderInvoiceHTML executes the embedded invoice template.
func (r *HTMLRenderer) RenderInvoiceHTML(_ context.Context, doc *appbilling.InvoiceDocument) ([]byte, error) {
	if doc == nil || doc.Invoice == nil {
		return nil, fmt.Errorf("html: empty document")
	}
	view := htmlView{
		InvoiceDocument:  doc,
		Title:            doc.Title(),
		Date:             doc.LongDate(),
		ContactLines:     doc.ShopContactLines(),
		Lines:            make([]htmlLine, 0, len(doc.Items)),
		TotalQuantity:    doc.TotalQuantity(),
		ShowTaxBreakdown: doc.ShowTaxBreakdown(),
		Zero:             decimal.Zero,
		AutoPrint:        r.autoPrint,
	}
	for i, it := range doc.Items {
		view.Lines = append(view.Lines, htmlLine{No: i + 1, Item: it, Details: appbilling.ItemDetails(it)})
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("html: render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
