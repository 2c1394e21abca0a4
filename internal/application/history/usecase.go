// Package history lists past invoices, totals revenue for the stats cards
// and exports the filtered history.
package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
	"github.com/jhoicas/gst-billing-api/pkg/inr"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Content types of the export formats.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	isoDate    = "2006-01-02"
	exportDate = "02/01/2006"
)

// ExportHeader is the column order of every export.
var ExportHeader = []string{
	"Invoice No", "Date", "Type", "Customer Name", "Contact", "Subtotal", "GST", "Grand Total",
}

// UseCase serves the billing history screen.
type UseCase struct {
	invoiceRepo repository.InvoiceRepository
	xlsx        SpreadsheetWriter
	now         func() time.Time
}

// NewUseCase builds the use case. xlsx may be nil, which disables XLSX export.
func NewUseCase(invoiceRepo repository.InvoiceRepository, xlsx SpreadsheetWriter) *UseCase {
	return &UseCase{invoiceRepo: invoiceRepo, xlsx: xlsx, now: time.Now}
}

// WithClock overrides time.Now (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// List returns one page of invoices matching q, newest first.
func (uc *UseCase) List(ctx context.Context, q dto.InvoiceHistoryQuery) (*dto.InvoiceListResponse, error) {
	page := q.Page()
	filter, err := toFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	invoices, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	total, err := uc.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("history: count: %w", err)
	}

	resp := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceSummary, 0, len(invoices)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, inv := range invoices {
		resp.Items = append(resp.Items, billing.ToInvoiceSummary(inv))
	}
	return resp, nil
}

// Stats sums grand totals for today, the current month and the current year.
// The three queries run in parallel.
func (uc *UseCase) Stats(ctx context.Context) (*dto.InvoiceStatsResponse, error) {
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	yearEnd := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)

	type sumResult struct {
		total decimal.Decimal
		err   error
	}
	sum := func(from, to time.Time) <-chan sumResult {
		ch := make(chan sumResult, 1)
		go func() {
			total, err := uc.invoiceRepo.SumGrandTotal(ctx, from, to)
			ch <- sumResult{total, err}
		}()
		return ch
	}

	todayCh := sum(today, today)
	monthCh := sum(monthStart, monthEnd)
	yearCh := sum(yearStart, yearEnd)

	day, month, year := <-todayCh, <-monthCh, <-yearCh
	if day.err != nil {
		return nil, fmt.Errorf("history: today's sales: %w", day.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("history: month's sales: %w", month.err)
	}
	if year.err != nil {
		return nil, fmt.Errorf("history: year's sales: %w", year.err)
	}

	return &dto.InvoiceStatsResponse{
		Today:     day.total.Round(2),
		ThisMonth: month.total.Round(2),
		ThisYear:  year.total.Round(2),
		AsOf:      today.Format(isoDate),
	}, nil
}

// Export renders every invoice matching q (pagination ignored) in format.
// It returns the file body, a download filename and its content type.
func (uc *UseCase) Export(ctx context.Context, q dto.InvoiceHistoryQuery, format string) ([]byte, string, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return nil, "", "", fmt.Errorf("%w: export format %q", domain.ErrInvalidInput, format)
	}
	if format == FormatXLSX && uc.xlsx == nil {
		return nil, "", "", fmt.Errorf("%w: xlsx export is not available", domain.ErrInvalidInput)
	}

	filter, err := toFilter(q)
	if err != nil {
		return nil, "", "", err
	}
	invoices, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, "", "", fmt.Errorf("history: export: %w", err)
	}

	rows := make([]ExportRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, ExportRow{
			InvoiceNumber:   inv.InvoiceNumber,
			InvoiceDate:     inv.InvoiceDate,
			InvoiceType:     inv.InvoiceType,
			CustomerName:    inv.CustomerName,
			CustomerContact: inv.CustomerContact,
			Subtotal:        inv.Subtotal,
			TotalGST:        inv.TotalGST,
			GrandTotal:      inv.GrandTotal,
		})
	}

	filename := fmt.Sprintf("billing-history-%s.%s", uc.now().Format(isoDate), format)
	var buf bytes.Buffer
	if format == FormatXLSX {
		if err := uc.xlsx.WriteInvoices(&buf, ExportHeader, rows); err != nil {
			return nil, "", "", fmt.Errorf("history: write xlsx: %w", err)
		}
		return buf.Bytes(), filename, ContentTypeXLSX, nil
	}
	if err := writeCSV(&buf, rows); err != nil {
		return nil, "", "", fmt.Errorf("history: write csv: %w", err)
	}
	return buf.Bytes(), filename, ContentTypeCSV, nil
}

func writeCSV(buf *bytes.Buffer, rows []ExportRow) error {
	w := csv.NewWriter(buf)
	if err := w.Write(ExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.InvoiceNumber,
			r.InvoiceDate.Format(exportDate),
			r.InvoiceType,
			r.CustomerName,
			r.CustomerContact,
			inr.Plain(r.Subtotal),
			inr.Plain(r.TotalGST),
			inr.Plain(r.GrandTotal),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// toFilter validates the query and converts it to a repository filter.
func toFilter(q dto.InvoiceHistoryQuery) (repository.InvoiceFilter, error) {
	f := repository.InvoiceFilter{Search: strings.TrimSpace(q.Search)}

	switch q.Type {
	case "", "all":
	case "GST", "Non-GST":
		f.Type = q.Type
	default:
		return f, fmt.Errorf("%w: type must be all, GST or Non-GST", domain.ErrInvalidInput)
	}

	if q.DateFrom != "" {
		t, err := time.Parse(isoDate, q.DateFrom)
		if err != nil {
			return f, fmt.Errorf("%w: date_from must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		f.DateFrom = &t
	}
	if q.DateTo != "" {
		t, err := time.Parse(isoDate, q.DateTo)
		if err != nil {
			return f, fmt.Errorf("%w: date_to must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		f.DateTo = &t
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return f, fmt.Errorf("%w: date_from is after date_to", domain.ErrInvalidInput)
	}
	return f, nil
}
