// Package export writes billing history spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/gst-billing-api/internal/application/history"
)

// SheetName is the worksheet holding the export.
const SheetName = "Billing History"

const (
	amountFormat = "#,##0.00"
	dateFormat   = "dd/mm/yyyy"
)

var _ history.SpreadsheetWriter = (*ExcelExporter)(nil)

// ExcelExporter implements history.SpreadsheetWriter with excelize. Amounts
// stay numeric and dates stay dates; a totals row sums the money columns.
type ExcelExporter struct{}

// NewExcelExporter builds the exporter.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// WriteInvoices writes header and rows to a single-sheet workbook.
func (e *ExcelExporter) WriteInvoices(w io.Writer, header []string, rows []history.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	amountFmt := amountFormat
	amount, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return err
	}
	boldAmount, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &amountFmt})
	if err != nil {
		return err
	}
	dateFmt := dateFormat
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return err
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
			return err
		}
	}

	for i, r := range rows {
		n := i + 2
		values := []any{
			r.InvoiceNumber,
			r.InvoiceDate,
			r.InvoiceType,
			r.CustomerName,
			r.CustomerContact,
			r.Subtotal.InexactFloat64(),
			r.TotalGST.InexactFloat64(),
			r.GrandTotal.InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", n), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("B%d", n), fmt.Sprintf("B%d", n), date); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("F%d", n), fmt.Sprintf("H%d", n), amount); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		totalRow := len(rows) + 2
		if err := f.SetCellValue(SheetName, fmt.Sprintf("E%d", totalRow), "Total"); err != nil {
			return err
		}
		for _, c := range []string{"F", "G", "H"} {
			cell := fmt.Sprintf("%s%d", c, totalRow)
			if err := f.SetCellFormula(SheetName, cell, fmt.Sprintf("SUM(%s2:%s%d)", c, c, totalRow-1)); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("E%d", totalRow), fmt.Sprintf("H%d", totalRow), boldAmount); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 14)
	_ = f.SetColWidth(SheetName, "B", "C", 12)
	_ = f.SetColWidth(SheetName, "D", "D", 30)
	_ = f.SetColWidth(SheetName, "E", "H", 15)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write xlsx: %w", err)
	}
	return nil
}
