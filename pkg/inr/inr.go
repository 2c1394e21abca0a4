// Package inr formats rupee amounts for display with Indian digit grouping
// (12,34,567.89) using the en-IN locale data from golang.org/x/text.
package inr

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Symbol is the rupee sign.
const Symbol = "₹"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format renders amount with two decimals and en-IN grouping, no symbol.
func Format(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// FormatWithSymbol prefixes Format with the rupee sign.
func FormatWithSymbol(amount decimal.Decimal) string {
	return Symbol + " " + Format(amount)
}

// Plain renders amount with exactly two decimals and no grouping, the form
// used in CSV and spreadsheet exports.
func Plain(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
