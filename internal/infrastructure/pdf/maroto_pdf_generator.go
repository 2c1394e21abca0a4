// Package pdf renders the printable tax invoice.
//
// Page layout (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  SHOP: name, address, contact, GSTIN                        │
//	│  (Original Copy)                       INVOICE <no> + date  │
//	│  BILL TO: customer, address, contact, place of supply       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ITEMS: # | Particulars | HSN | Qty | MRP | Price | GST | Amt│
//	│  Total Qty                                    TOTAL         │
//	│  HSN-wise CGST/SGST breakdown (GST invoices only)           │
//	│  Amount in words                                            │
//	│  Sub Total / Tax / TOTAL / Paid / Balance                   │
//	│  Terms, bank details, signature                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/pkg/inr"
)

var (
	colorPrimary = &props.Color{Red: 74, Green: 144, Blue: 226}
	colorGray    = &props.Color{Red: 102, Green: 102, Blue: 102}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorShade   = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// The core PDF fonts are Latin-1 only, so the rupee sign is spelled out.
const currency = "Rs. "

const detailLineHeight = 3.5

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implements billing.InvoicePDFGenerator with Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF lays out the invoice and returns the PDF bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc *appbilling.InvoiceDocument) ([]byte, error) {
	if doc == nil || doc.Invoice == nil {
		return nil, fmt.Errorf("pdf: empty document")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Title(), true).
		WithAuthor(doc.Shop.Name, true).
		Build()

	m := maroto.New(cfg)
	inv := doc.Invoice

	m.AddRows(shopRows(doc)...)
	m.AddRows(titleRow(doc))
	m.AddRows(billToRows(inv)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	for i, it := range doc.Items {
		m.AddRows(itemRow(i+1, it))
	}
	m.AddRows(itemsFooterRow(doc))

	if doc.ShowTaxBreakdown() {
		m.AddRows(line.NewRow(2))
		m.AddRows(breakdownRows(doc.Items)...)
	}

	m.AddRows(line.NewRow(2))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Amount (in words) : "+inv.AmountInWords, props.Text{Size: 9, Top: 2, Left: 2}),
	)).WithStyle(&props.Cell{BackgroundColor: colorShade}))

	m.AddRows(totalsRows(inv)...)
	m.AddRows(termsRows(doc.Shop)...)

	pdf, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return pdf.GetBytes(), nil
}

func shopRows(doc *appbilling.InvoiceDocument) []core.Row {
	shop := doc.Shop
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(shop.Name, props.Text{Style: fontstyle.Bold, Size: 14, Top: 1}),
		)),
	}
	for _, l := range doc.ShopContactLines() {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(l, props.Text{Size: 8, Color: colorGray}),
		)))
	}
	if shop.GSTIN != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("GSTIN : "+shop.GSTIN, props.Text{Size: 9, Top: 1}),
		)))
	}
	return rows
}

func titleRow(doc *appbilling.InvoiceDocument) core.Row {
	return row.New(16).Add(
		col.New(6),
		col.New(6).Add(
			text.New("(Original Copy)", props.Text{Size: 7, Align: align.Right, Color: colorGray, Top: 1}),
			text.New(doc.Title(), props.Text{Style: fontstyle.Bold, Size: 13, Align: align.Right, Color: colorGray, Top: 5}),
			text.New("Date "+doc.LongDate(), props.Text{Size: 8, Align: align.Right, Color: colorGray, Top: 11}),
		),
	).WithStyle(&props.Cell{BackgroundColor: colorShade})
}

func billToRows(inv *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Bill To :", props.Text{Style: fontstyle.Bold, Size: 9, Color: colorWhite, Top: 1, Left: 2}),
		)).WithStyle(&props.Cell{BackgroundColor: colorPrimary}),
		row.New(6).Add(col.New(12).Add(
			text.New(strings.ToUpper(inv.CustomerName), props.Text{Style: fontstyle.Bold, Size: 10, Top: 1, Left: 2}),
		)),
	}
	if inv.CustomerAddress != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(inv.CustomerAddress, props.Text{Size: 8, Left: 2}),
		)))
	}
	contact := row.New(5).Add(
		col.New(6).Add(text.New("Contact: "+inv.CustomerContact, props.Text{Size: 8, Left: 2})),
		col.New(6).Add(text.New("PoS: "+inv.PlaceOfSupply, props.Text{Size: 8})),
	)
	rows = append(rows, contact)
	if inv.CustomerGSTIN != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("GSTIN : "+inv.CustomerGSTIN, props.Text{Size: 8, Left: 2}),
		)))
	}
	return rows
}

// Column widths on the 12-grid: # | particulars | HSN | qty | MRP | price | GST | amount.
var itemCols = [8]int{1, 3, 1, 1, 1, 2, 1, 2}

func itemsHeaderRow() core.Row {
	labels := [8]string{"S.No.", "PARTICULARS", "HSN/SAC", "QTY", "MRP", "UNIT PRICE", "GST", "AMOUNT"}
	aligns := [8]align.Type{align.Center, align.Left, align.Left, align.Center, align.Right, align.Right, align.Center, align.Right}
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		cols = append(cols, col.New(itemCols[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: aligns[i], Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRow(n int, it *entity.InvoiceItem) core.Row {
	details := appbilling.ItemDetails(it)
	height := 6 + detailLineHeight*float64(len(details))

	particulars := col.New(itemCols[1]).Add(
		text.New(it.ItemName, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1}),
	)
	for i, d := range details {
		particulars.Add(text.New(d, props.Text{
			Size: 7, Color: colorGray, Left: 1, Top: 5 + detailLineHeight*float64(i),
		}))
	}

	cell := func(size int, s string, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(height).Add(
		cell(itemCols[0], fmt.Sprint(n), align.Center),
		particulars,
		cell(itemCols[2], orDash(it.HSNSACCode), align.Left),
		cell(itemCols[3], strings.TrimSpace(it.Quantity.String()+" "+it.Unit), align.Center),
		cell(itemCols[4], mrp(it.MRP), align.Right),
		cell(itemCols[5], money(it.SalePrice), align.Right),
		cell(itemCols[6], it.GSTPercentage.String()+"%", align.Center),
		col.New(itemCols[7]).Add(text.New(money(it.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

func itemsFooterRow(doc *appbilling.InvoiceDocument) core.Row {
	return row.New(8).Add(
		col.New(5).Add(text.New("Total Qty : "+doc.TotalQuantity().String(), props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 2, Left: 1,
		})),
		col.New(7).Add(text.New("TOTAL "+money(doc.Invoice.GrandTotal), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorWhite, Top: 2, Right: 2,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary}),
	)
}

func breakdownRows(items []*entity.InvoiceItem) []core.Row {
	head := func(s string, a align.Type) core.Col {
		return col.New(2).Add(text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Color: colorWhite, Top: 1, Left: 1, Right: 1,
		}))
	}
	rows := []core.Row{
		row.New(5).Add(
			head("HSN/SAC", align.Left), head("GST%", align.Right), head("Amount", align.Right),
			head("CGST", align.Right), head("SGST", align.Right), col.New(2),
		).WithStyle(&props.Cell{BackgroundColor: colorPrimary}),
	}
	cell := func(s string, a align.Type) core.Col {
		return col.New(2).Add(text.New(s, props.Text{Size: 7, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, it := range items {
		rows = append(rows, row.New(5).Add(
			cell(orDash(it.HSNSACCode), align.Left),
			cell(it.GSTPercentage.String(), align.Right),
			cell(inr.Format(it.BasePrice), align.Right),
			cell(inr.Format(it.CGSTAmount), align.Right),
			cell(inr.Format(it.SGSTAmount), align.Right),
			col.New(2),
		).WithStyle(&props.Cell{BackgroundColor: colorShade}))
	}
	return rows
}

func totalsRows(inv *entity.Invoice) []core.Row {
	total := func(label, value string, strong bool) core.Row {
		p := props.Text{Size: 9, Top: 1.5}
		if strong {
			p = props.Text{Style: fontstyle.Bold, Size: 11, Top: 1.5, Color: colorWhite}
		}
		lp, vp := p, p
		lp.Left = 2
		vp.Align, vp.Right = align.Right, 2
		r := row.New(7).Add(
			col.New(6).Add(text.New(label, lp)),
			col.New(6).Add(text.New(value, vp)),
		)
		if strong {
			return r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
		}
		return r.WithStyle(&props.Cell{BackgroundColor: colorShade})
	}

	rows := []core.Row{total("Sub Total", money(inv.Subtotal), false)}
	if inv.IsGST() {
		rows = append(rows, total("Tax Amount (+)", money(inv.TotalGST), false))
	}
	return append(rows,
		total("TOTAL AMOUNT", money(inv.GrandTotal), true),
		total("Amount Paid", money(inv.GrandTotal), false),
		total("Balance", money(decimal.Zero), false),
	)
}

func termsRows(shop dto.ShopProfile) []core.Row {
	var rows []core.Row
	if len(shop.Terms) > 0 {
		rows = append(rows, line.NewRow(3), row.New(6).Add(col.New(12).Add(
			text.New("Terms / Declaration", props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Left: 2}),
		)))
		for _, t := range shop.Terms {
			rows = append(rows, row.New(5).Add(col.New(12).Add(
				text.New(t, props.Text{Size: 7.5, Left: 2}),
			)))
		}
	}
	if len(shop.Bank) > 0 {
		rows = append(rows, line.NewRow(2), row.New(5).Add(col.New(12).Add(
			text.New("Bank Details -", props.Text{Style: fontstyle.Bold, Size: 8, Left: 2}),
		)))
		for _, b := range shop.Bank {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(b, props.Text{Size: 7.5, Left: 2}),
			)))
		}
	}
	return append(rows, row.New(16).Add(col.New(12).Add(
		text.New("For, "+strings.ToUpper(shop.Name), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 10, Right: 2,
		}),
	)))
}

func money(d decimal.Decimal) string {
	return currency + inr.Format(d)
}

func mrp(d decimal.Decimal) string {
	if !d.IsPositive() {
		return "-"
	}
	return money(d)
}

func orDash(s string) string {
	if s != "" {
		return s
	}
	return "-"
}
