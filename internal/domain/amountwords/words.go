// Package amountwords spells rupee amounts in English words using the Indian
// numbering scheme (crore, lakh, thousand), e.g. for the "amount in words"
// line printed on an invoice.
package amountwords

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/domain"
)

const (
	crore    = 10_000_000
	lakh     = 100_000
	thousand = 1_000
)

// Limit is the first amount that is no longer spelled (10^9 rupees).
var Limit = decimal.NewFromInt(1_000_000_000)

// ErrOutOfRange is returned for negative amounts and amounts >= Limit.
var ErrOutOfRange = fmt.Errorf("%w: amount must be between 0 and 999999999.99", domain.ErrInvalidInput)

var (
	ones  = [...]string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teens = [...]string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens  = [...]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// scales in descending order; the last entry has no scale word.
var scales = [...]struct {
	size int64
	word string
}{
	{crore, "Crore"},
	{lakh, "Lakh"},
	{thousand, "Thousand"},
	{1, ""},
}

// ToWords spells amount after rounding it to paise (half away from zero).
//
//	0          -> "Zero Rupees Only"
//	100000     -> "One Lakh Rupees Only"
//	0.50       -> "Zero Rupees and Fifty Paise Only"
//	1234567.89 -> "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and Eighty Nine Paise Only"
func ToWords(amount decimal.Decimal) (string, error) {
	amount = amount.Round(2)
	if amount.IsNegative() || amount.GreaterThanOrEqual(Limit) {
		return "", ErrOutOfRange
	}
	if amount.IsZero() {
		return "Zero Rupees Only", nil
	}

	rupeesPart := amount.Floor()
	rupees := rupeesPart.IntPart()
	paise := amount.Sub(rupeesPart).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	words := rupeeWords(rupees)
	if words == "" {
		words = "Zero"
	}
	if paise > 0 {
		return words + " Rupees and " + lessThanThousand(paise) + " Paise Only", nil
	}
	return words + " Rupees Only", nil
}

// MustToWords is ToWords for amounts already known to be in range.
func MustToWords(amount decimal.Decimal) string {
	s, err := ToWords(amount)
	if err != nil {
		panic(err)
	}
	return s
}

// rupeeWords groups n big-endian by crore, lakh and thousand.
func rupeeWords(n int64) string {
	var parts []string
	for _, s := range scales {
		segment := n / s.size
		n %= s.size
		if segment == 0 {
			continue
		}
		w := lessThanThousand(segment)
		if s.word != "" {
			w += " " + s.word
		}
		parts = append(parts, w)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// lessThanThousand spells 0..999; 0 is the empty string.
func lessThanThousand(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return ones[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		if n%10 != 0 {
			return tens[n/10] + " " + ones[n%10]
		}
		return tens[n/10]
	default:
		if n%100 != 0 {
			return ones[n/100] + " Hundred " + lessThanThousand(n%100)
		}
		return ones[n/100] + " Hundred"
	}
}
