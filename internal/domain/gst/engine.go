// Package gst splits tax-inclusive prices into a pre-tax base and the two
// equal halves of Goods and Services Tax (CGST/SGST), and totals an invoice.
//
// Every function is pure: no state is kept between calls and inputs are never
// mutated, so callers may use the package from any goroutine.
//
// Rounding: each output is rounded independently to 2 decimal places, half
// away from zero. Because base and both halves are rounded separately, their
// sum may differ from the line total by up to 2 paise (see Drift).
package gst

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

// Places is the number of decimal places every amount is rounded to.
const Places int32 = 2

// ErrNegativeInput is returned when a price, quantity or rate is negative.
var ErrNegativeInput = fmt.Errorf("%w: negative price, quantity or tax rate", domain.ErrInvalidInput)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// LineInput is one line as entered: a tax-inclusive unit price, a quantity
// and the GST rate in percent.
type LineInput struct {
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
	RatePercent decimal.Decimal
}

// LineAmounts is the decomposition of one line.
type LineAmounts struct {
	BasePrice     decimal.Decimal `json:"base_price"`
	TaxComponentA decimal.Decimal `json:"cgst_amount"`
	TaxComponentB decimal.Decimal `json:"sgst_amount"`
	LineTotal     decimal.Decimal `json:"total_amount"`
}

// Totals are the invoice-level sums over a set of lines.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalTax   decimal.Decimal `json:"total_gst"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// DecomposeLine splits unitPrice*quantity (tax inclusive) at ratePercent.
// A zero rate yields base == total with no tax; a zero price or quantity
// yields all zeros. Any non-negative rate is accepted.
func DecomposeLine(unitPrice, quantity, ratePercent decimal.Decimal) (LineAmounts, error) {
	if unitPrice.IsNegative() || quantity.IsNegative() || ratePercent.IsNegative() {
		return LineAmounts{}, ErrNegativeInput
	}

	lineTotal := unitPrice.Mul(quantity)
	divisor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	base := lineTotal.Div(divisor)
	half := lineTotal.Sub(base).Div(two)

	return LineAmounts{
		BasePrice:     base.Round(Places),
		TaxComponentA: half.Round(Places),
		TaxComponentB: half.Round(Places),
		LineTotal:     lineTotal.Round(Places),
	}, nil
}

// Decompose is DecomposeLine over the input's fields.
func (in LineInput) Decompose() (LineAmounts, error) {
	return DecomposeLine(in.UnitPrice, in.Quantity, in.RatePercent)
}

// Aggregate sums already-rounded line fields in input order and rounds each
// final sum. An empty slice gives zero totals.
func Aggregate(lines []LineAmounts) Totals {
	var subtotal, tax, grand decimal.Decimal
	for _, l := range lines {
		subtotal = subtotal.Add(l.BasePrice)
		tax = tax.Add(l.TaxComponentA).Add(l.TaxComponentB)
		grand = grand.Add(l.LineTotal)
	}
	return Totals{
		Subtotal:   subtotal.Round(Places),
		TotalTax:   tax.Round(Places),
		GrandTotal: grand.Round(Places),
	}
}

// Drift returns LineTotal - (BasePrice + TaxComponentA + TaxComponentB), the
// discrepancy left by independent rounding. Its magnitude never exceeds 0.02.
func Drift(l LineAmounts) decimal.Decimal {
	return l.LineTotal.Sub(l.BasePrice.Add(l.TaxComponentA).Add(l.TaxComponentB))
}

// ApplyTo decomposes item at the given rate and writes the derived fields
// back onto it. The item's own GSTPercentage is not consulted so Non-GST
// invoices can force a zero rate.
func ApplyTo(item *entity.InvoiceItem, ratePercent decimal.Decimal) error {
	amounts, err := DecomposeLine(item.SalePrice, item.Quantity, ratePercent)
	if err != nil {
		return err
	}
	item.BasePrice = amounts.BasePrice
	item.CGSTAmount = amounts.TaxComponentA
	item.SGSTAmount = amounts.TaxComponentB
	item.TotalAmount = amounts.LineTotal
	return nil
}

// FromItem reads the derived fields already stored on an item.
func FromItem(item *entity.InvoiceItem) LineAmounts {
	return LineAmounts{
		BasePrice:     item.BasePrice,
		TaxComponentA: item.CGSTAmount,
		TaxComponentB: item.SGSTAmount,
		LineTotal:     item.TotalAmount,
	}
}
