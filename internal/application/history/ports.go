package history

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// ExportRow one invoice in an export, typed so spreadsheet writers can keep
// numbers and dates as native cells.
type ExportRow struct {
	InvoiceNumber   string
	InvoiceDate     time.Time
	InvoiceType     string
	CustomerName    string
	CustomerContact string
	Subtotal        decimal.Decimal
	TotalGST        decimal.Decimal
	GrandTotal      decimal.Decimal
}

// SpreadsheetWriter writes the export as an XLSX workbook.
type SpreadsheetWriter interface {
	WriteInvoices(w io.Writer, header []string, rows []ExportRow) error
}
