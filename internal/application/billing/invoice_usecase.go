package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/amountwords"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
	"github.com/jhoicas/gst-billing-api/pkg/logger"
)

// maxNumberAttempts bounds how often Create re-reads the sequence after
// losing an invoice number to a concurrent insert.
const maxNumberAttempts = 3

// ErrNumberExhausted is returned when every numbering attempt collided.
var ErrNumberExhausted = fmt.Errorf("%w: could not allocate an invoice number", domain.ErrConflict)

// InvoiceUseCase creates, reads and deletes invoices.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	catalog     *Catalog
	cache       InvoiceCache
	metrics     Metrics
	log         *logger.Logger
	numbers     numberSequence
	now         func() time.Time
}

// Option customises an InvoiceUseCase.
type Option func(*InvoiceUseCase)

// WithCache enables the read-through invoice cache.
func WithCache(c InvoiceCache) Option { return func(uc *InvoiceUseCase) { uc.cache = c } }

// WithMetrics sets the billing metrics sink.
func WithMetrics(m Metrics) Option { return func(uc *InvoiceUseCase) { uc.metrics = m } }

// WithLogger sets the logger used for non-fatal cache failures.
func WithLogger(l *logger.Logger) Option { return func(uc *InvoiceUseCase) { uc.log = l } }

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option { return func(uc *InvoiceUseCase) { uc.now = now } }

// NewInvoiceUseCase builds the use case.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	catalog *Catalog,
	numberPrefix string,
	opts ...Option,
) *InvoiceUseCase {
	uc := &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		catalog:     catalog,
		metrics:     NopMetrics{},
		log:         logger.Nop(),
		numbers:     newNumberSequence(numberPrefix),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Preview computes line amounts and totals for a draft without persisting it.
// Non-GST invoices are computed at a zero rate whatever the lines carry.
func (uc *InvoiceUseCase) Preview(in dto.PreviewInvoiceRequest) (*dto.InvoicePreviewResponse, error) {
	if !entity.ValidInvoiceType(in.InvoiceType) {
		return nil, fmt.Errorf("%w: invoice type %q", domain.ErrInvalidInput, in.InvoiceType)
	}

	resp := &dto.InvoicePreviewResponse{
		InvoiceType: in.InvoiceType,
		Lines:       make([]dto.LineBreakdown, 0, len(in.Items)),
	}
	lines := make([]gst.LineAmounts, 0, len(in.Items))
	for i, item := range in.Items {
		if err := checkItemAmounts(in.InvoiceType, item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		rate, err := uc.lineRate(in.InvoiceType, item.GSTPercentage)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		amounts, err := gst.DecomposeLine(item.SalePrice, item.Quantity, rate)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		lines = append(lines, amounts)
		resp.Lines = append(resp.Lines, dto.LineBreakdown{
			ItemName:      item.ItemName,
			GSTPercentage: rate,
			BasePrice:     amounts.BasePrice,
			CGSTAmount:    amounts.TaxComponentA,
			SGSTAmount:    amounts.TaxComponentB,
			TotalAmount:   amounts.LineTotal,
		})
	}

	totals := gst.Aggregate(lines)
	words, err := amountwords.ToWords(totals.GrandTotal)
	if err != nil {
		return nil, err
	}
	resp.Subtotal = totals.Subtotal
	resp.TotalGST = totals.TotalTax
	resp.GrandTotal = totals.GrandTotal
	resp.AmountInWords = words
	return resp, nil
}

// Create validates the request, derives every amount, allocates the next
// invoice number and stores the invoice with its lines in one transaction.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, items, err := uc.buildInvoice(in)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository) error {
			last, err := invoiceRepo.LastInvoiceNumber(ctx)
			if err != nil {
				return err
			}
			inv.InvoiceNumber = uc.numbers.next(last)
			if err := invoiceRepo.Create(ctx, inv); err != nil {
				return err
			}
			for _, item := range items {
				item.InvoiceID = inv.ID
				if err := invoiceRepo.CreateItem(ctx, item); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("create invoice: %w", err)
		}
		uc.metrics.NumberConflict()
		if attempt >= maxNumberAttempts {
			return nil, ErrNumberExhausted
		}
	}

	uc.metrics.InvoiceCreated(inv.InvoiceType, inv.GrandTotal)
	resp := ToInvoiceResponse(inv, items)
	uc.cacheSet(ctx, resp)
	return resp, nil
}

// NextNumber returns the number the next created invoice will most likely get.
func (uc *InvoiceUseCase) NextNumber(ctx context.Context) (*dto.NextNumberResponse, error) {
	last, err := uc.invoiceRepo.LastInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.NextNumberResponse{InvoiceNumber: uc.numbers.next(last)}, nil
}

// Get returns an invoice with its lines.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, id)
		if err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", id).Msg("invoice cache get failed")
		}
		uc.metrics.CacheLookup(cached != nil)
		if cached != nil {
			return cached, nil
		}
	}

	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv, items)
	uc.cacheSet(ctx, resp)
	return resp, nil
}

// Delete removes an invoice and its lines.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	if err := uc.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, id); err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", id).Msg("invoice cache delete failed")
		}
	}
	uc.metrics.InvoiceDeleted()
	return nil
}

func (uc *InvoiceUseCase) cacheSet(ctx context.Context, resp *dto.InvoiceResponse) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, resp); err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", resp.ID).Msg("invoice cache set failed")
	}
}

// lineRate is the rate a line is taxed at: zero on Non-GST invoices,
// otherwise the line's own rate which must be in the catalogue.
func (uc *InvoiceUseCase) lineRate(invoiceType string, rate decimal.Decimal) (decimal.Decimal, error) {
	if invoiceType != entity.InvoiceTypeGST {
		return decimal.Zero, nil
	}
	if err := uc.catalog.ValidateRate(rate); err != nil {
		return decimal.Zero, fmt.Errorf("%w (%s%%)", err, rate)
	}
	return rate, nil
}

// buildInvoice validates in and returns the header and lines with every
// derived amount filled in. Nothing is persisted.
func (uc *InvoiceUseCase) buildInvoice(in dto.CreateInvoiceRequest) (*entity.Invoice, []*entity.InvoiceItem, error) {
	if !entity.ValidInvoiceType(in.InvoiceType) {
		return nil, nil, fmt.Errorf("%w: invoice type %q", domain.ErrInvalidInput, in.InvoiceType)
	}
	required := []struct{ field, value string }{
		{"customer_name", in.CustomerName},
		{"customer_contact", in.CustomerContact},
		{"customer_address", in.CustomerAddress},
		{"place_of_supply", in.PlaceOfSupply},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, r.field)
		}
	}
	if len(in.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one item is required", domain.ErrInvalidInput)
	}

	now := uc.now()
	invoiceDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if in.InvoiceDate != "" {
		d, err := time.Parse("2006-01-02", in.InvoiceDate)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invoice_date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		invoiceDate = d
	}

	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		InvoiceType:     in.InvoiceType,
		InvoiceDate:     invoiceDate,
		PlaceOfSupply:   strings.TrimSpace(in.PlaceOfSupply),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerContact: strings.TrimSpace(in.CustomerContact),
		CustomerAddress: strings.TrimSpace(in.CustomerAddress),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if inv.IsGST() {
		inv.CustomerGSTIN = strings.ToUpper(strings.TrimSpace(in.CustomerGSTIN))
	}

	items := make([]*entity.InvoiceItem, 0, len(in.Items))
	lines := make([]gst.LineAmounts, 0, len(in.Items))
	for i, req := range in.Items {
		item, err := uc.buildItem(inv, req)
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		item.CreatedAt = now.Add(time.Duration(i) * time.Microsecond) // keeps entry order on read
		items = append(items, item)
		lines = append(lines, gst.FromItem(item))
	}

	totals := gst.Aggregate(lines)
	words, err := amountwords.ToWords(totals.GrandTotal)
	if err != nil {
		return nil, nil, err
	}
	inv.Subtotal = totals.Subtotal
	inv.TotalGST = totals.TotalTax
	inv.GrandTotal = totals.GrandTotal
	inv.AmountInWords = words
	return inv, items, nil
}

func (uc *InvoiceUseCase) buildItem(inv *entity.Invoice, req dto.InvoiceItemRequest) (*entity.InvoiceItem, error) {
	if strings.TrimSpace(req.ItemName) == "" {
		return nil, fmt.Errorf("%w: item_name is required", domain.ErrInvalidInput)
	}
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", domain.ErrInvalidInput)
	}
	if req.SalePrice.IsNegative() || req.MRP.IsNegative() {
		return nil, gst.ErrNegativeInput
	}
	if err := checkItemAmounts(inv.InvoiceType, req); err != nil {
		return nil, err
	}
	unit := uc.catalog.NormalizeUnit(req.Unit)
	if err := uc.catalog.ValidateUnit(unit); err != nil {
		return nil, fmt.Errorf("%w (%s)", err, unit)
	}
	rate, err := uc.lineRate(inv.InvoiceType, req.GSTPercentage)
	if err != nil {
		return nil, err
	}

	item := &entity.InvoiceItem{
		ID:            uuid.New().String(),
		InvoiceID:     inv.ID,
		ItemName:      strings.TrimSpace(req.ItemName),
		Description:   strings.TrimSpace(req.Description),
		Unit:          unit,
		Quantity:      req.Quantity,
		SalePrice:     req.SalePrice,
		MRP:           req.MRP,
		HSNSACCode:    strings.TrimSpace(req.HSNSACCode),
		GSTPercentage: rate,
		SerialNumber:  strings.TrimSpace(req.SerialNumber),
		IMEI1:         strings.TrimSpace(req.IMEI1),
		IMEI2:         strings.TrimSpace(req.IMEI2),
	}
	if err := gst.ApplyTo(item, rate); err != nil {
		return nil, err
	}
	return item, nil
}
