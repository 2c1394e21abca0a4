package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

// amountPlaces is the scale of every stored amount, quantity and rate.
const amountPlaces = 2

// Integer digits allowed by the invoice_items columns.
const (
	quantityDigits = 8  // decimal(10,2)
	priceDigits    = 10 // decimal(12,2)
	rateDigits     = 3  // decimal(5,2)
)

// ErrAmountNotStorable is returned for values the item columns would round
// or reject.
var ErrAmountNotStorable = fmt.Errorf("%w: value does not fit the stored precision", domain.ErrInvalidInput)

// checkStorable rejects v when it carries more than two decimals or more
// integer digits than its column allows.
func checkStorable(field string, v decimal.Decimal, intDigits int32) error {
	if !v.Equal(v.Truncate(amountPlaces)) {
		return fmt.Errorf("%w: %s %s has more than %d decimals", ErrAmountNotStorable, field, v, amountPlaces)
	}
	if v.Abs().GreaterThanOrEqual(decimal.New(1, intDigits)) {
		return fmt.Errorf("%w: %s %s exceeds %d integer digits", ErrAmountNotStorable, field, v, intDigits)
	}
	return nil
}

type storableField struct {
	name   string
	value  decimal.Decimal
	digits int32
}

// checkItemAmounts checks the values of one line. The rate only matters on
// GST invoices; Non-GST lines are stored at zero.
func checkItemAmounts(invoiceType string, req dto.InvoiceItemRequest) error {
	fields := []storableField{
		{"quantity", req.Quantity, quantityDigits},
		{"sale_price", req.SalePrice, priceDigits},
		{"mrp", req.MRP, priceDigits},
	}
	if invoiceType == entity.InvoiceTypeGST {
		fields = append(fields, storableField{"gst_percentage", req.GSTPercentage, rateDigits})
	}
	for _, f := range fields {
		if err := checkStorable(f.name, f.value, f.digits); err != nil {
			return err
		}
	}
	return nil
}
