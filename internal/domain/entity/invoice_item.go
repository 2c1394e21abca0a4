package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem is one billed line. SalePrice is the tax-inclusive unit price;
// BasePrice, CGSTAmount, SGSTAmount and TotalAmount are written by the tax
// engine only.
type InvoiceItem struct {
	ID            string
	InvoiceID     string
	ItemName      string
	Description   string
	Unit          string
	Quantity      decimal.Decimal
	SalePrice     decimal.Decimal
	MRP           decimal.Decimal
	HSNSACCode    string
	GSTPercentage decimal.Decimal
	SerialNumber  string
	IMEI1         string
	IMEI2         string
	BasePrice     decimal.Decimal
	CGSTAmount    decimal.Decimal
	SGSTAmount    decimal.Decimal
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
}
