package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/gst"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var fixedNow = time.Date(2025, 3, 14, 11, 30, 0, 0, time.UTC)

type fixture struct {
	repo    *memInvoiceRepo
	tx      *memTx
	cache   *memCache
	metrics *countingMetrics
	uc      *billing.InvoiceUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog, err := billing.NewCatalog(
		[]string{"0", "5", "12", "18", "28"},
		[]string{"PCS", "PAC", "BOX", "KG", "LTR", "MTR"},
		"18", "PCS",
	)
	require.NoError(t, err)

	f := &fixture{repo: newMemInvoiceRepo(), cache: newMemCache(), metrics: newCountingMetrics()}
	f.tx = &memTx{repo: f.repo}
	f.uc = billing.NewInvoiceUseCase(f.tx, f.repo, catalog, "GST",
		billing.WithCache(f.cache),
		billing.WithMetrics(f.metrics),
		billing.WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

func gstRequest(items ...dto.InvoiceItemRequest) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		InvoiceType:     entity.InvoiceTypeGST,
		PlaceOfSupply:   "19-West Bengal",
		CustomerName:    "Ravi Kumar",
		CustomerContact: "9876543210",
		CustomerAddress: "12 MG Road, Kolkata",
		CustomerGSTIN:   "19abcde1234f1z5",
		Items:           items,
	}
}

func item(name, price, qty, rate string) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{
		ItemName:      name,
		Unit:          "pcs",
		Quantity:      d(qty),
		SalePrice:     d(price),
		GSTPercentage: d(rate),
	}
}

func TestCreate_GSTInvoice(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Create(context.Background(), gstRequest(
		item("Charger", "118", "1", "18"),
		item("Cable", "99.99", "1", "18"),
	))
	require.NoError(t, err)

	assert.Equal(t, "GST-1", resp.InvoiceNumber)
	assert.Equal(t, "2025-03-14", resp.InvoiceDate)
	assert.Equal(t, "19ABCDE1234F1Z5", resp.CustomerGSTIN)
	assert.Equal(t, "184.74", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "33.26", resp.TotalGST.StringFixed(2))
	assert.Equal(t, "217.99", resp.GrandTotal.StringFixed(2))
	assert.Equal(t, "Two Hundred Seventeen Rupees and Ninety Nine Paise Only", resp.AmountInWords)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "PCS", resp.Items[0].Unit)
	assert.Equal(t, "100.00", resp.Items[0].BasePrice.StringFixed(2))
	assert.Equal(t, "7.63", resp.Items[1].CGSTAmount.StringFixed(2))
	assert.Equal(t, "7.63", resp.Items[1].SGSTAmount.StringFixed(2))

	stored, err := f.repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	items, _ := f.repo.GetItems(context.Background(), resp.ID)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, f.metrics.created[entity.InvoiceTypeGST])
	assert.NotNil(t, f.cache.entries[resp.ID])
}

func TestCreate_TotalsMatchAggregateOfLines(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Create(context.Background(), gstRequest(
		item("A", "99.99", "1", "18"),
		item("B", "99.99", "1", "18"),
		item("C", "99.99", "1", "18"),
	))
	require.NoError(t, err)

	var lines []gst.LineAmounts
	for _, it := range resp.Items {
		lines = append(lines, gst.LineAmounts{
			BasePrice: it.BasePrice, TaxComponentA: it.CGSTAmount,
			TaxComponentB: it.SGSTAmount, LineTotal: it.TotalAmount,
		})
	}
	totals := gst.Aggregate(lines)
	assert.True(t, totals.Subtotal.Equal(resp.Subtotal))
	assert.True(t, totals.TotalTax.Equal(resp.TotalGST))
	assert.True(t, totals.GrandTotal.Equal(resp.GrandTotal))
	assert.Equal(t, "254.22", resp.Subtotal.StringFixed(2))
}

func TestCreate_NonGSTForcesZeroRateAndDropsGSTIN(t *testing.T) {
	f := newFixture(t)
	req := gstRequest(item("Bag", "250", "2", "18"))
	req.InvoiceType = entity.InvoiceTypeNonGST

	resp, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, resp.CustomerGSTIN)
	assert.True(t, resp.TotalGST.IsZero())
	assert.Equal(t, "500.00", resp.GrandTotal.StringFixed(2))
	assert.True(t, resp.Items[0].GSTPercentage.IsZero())
	assert.True(t, resp.Items[0].BasePrice.Equal(resp.Items[0].TotalAmount))
}

func TestCreate_SequentialNumbers(t *testing.T) {
	f := newFixture(t)
	for _, want := range []string{"GST-1", "GST-2", "GST-3"} {
		resp, err := f.uc.Create(context.Background(), gstRequest(item("X", "10", "1", "0")))
		require.NoError(t, err)
		assert.Equal(t, want, resp.InvoiceNumber)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	cases := map[string]func(r *dto.CreateInvoiceRequest){
		"bad type":          func(r *dto.CreateInvoiceRequest) { r.InvoiceType = "VAT" },
		"blank customer":    func(r *dto.CreateInvoiceRequest) { r.CustomerName = "  " },
		"blank contact":     func(r *dto.CreateInvoiceRequest) { r.CustomerContact = "" },
		"blank address":     func(r *dto.CreateInvoiceRequest) { r.CustomerAddress = "" },
		"blank place":       func(r *dto.CreateInvoiceRequest) { r.PlaceOfSupply = "" },
		"no items":          func(r *dto.CreateInvoiceRequest) { r.Items = nil },
		"blank item name":   func(r *dto.CreateInvoiceRequest) { r.Items[0].ItemName = "" },
		"zero quantity":     func(r *dto.CreateInvoiceRequest) { r.Items[0].Quantity = decimal.Zero },
		"negative quantity": func(r *dto.CreateInvoiceRequest) { r.Items[0].Quantity = d("-1") },
		"negative price":    func(r *dto.CreateInvoiceRequest) { r.Items[0].SalePrice = d("-5") },
		"negative mrp":      func(r *dto.CreateInvoiceRequest) { r.Items[0].MRP = d("-5") },
		"rate not allowed":  func(r *dto.CreateInvoiceRequest) { r.Items[0].GSTPercentage = d("7") },
		"unit not allowed":  func(r *dto.CreateInvoiceRequest) { r.Items[0].Unit = "DOZEN" },
		"bad date":          func(r *dto.CreateInvoiceRequest) { r.InvoiceDate = "14/03/2025" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			req := gstRequest(item("Charger", "118", "1", "18"))
			mutate(&req)

			_, err := f.uc.Create(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), err.Error())
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestCreate_SpecificErrorKinds(t *testing.T) {
	f := newFixture(t)

	req := gstRequest(item("Charger", "118", "1", "7"))
	_, err := f.uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, billing.ErrRateNotAllowed)

	req = gstRequest(item("Charger", "118", "1", "18"))
	req.Items[0].Unit = "DOZEN"
	_, err = f.uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, billing.ErrUnitNotAllowed)

	req = gstRequest(item("Charger", "-1", "1", "18"))
	_, err = f.uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, gst.ErrNegativeInput)
}

func TestCreate_ExplicitDate(t *testing.T) {
	f := newFixture(t)
	req := gstRequest(item("Charger", "118", "1", "18"))
	req.InvoiceDate = "2024-12-31"

	resp, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", resp.InvoiceDate)
}

func TestCreate_GrandTotalTooLargeToSpell(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), gstRequest(item("Plant", "600000000", "2", "0")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCreate_RejectsAmountsTheColumnsCannotHold(t *testing.T) {
	cases := map[string]dto.InvoiceItemRequest{
		"three decimal quantity": item("Wire", "100", "0.333", "0"),
		"three decimal price":    item("Wire", "10.005", "1", "0"),
		"quantity too large":     item("Wire", "1", "123456789", "0"),
		"price too large":        item("Wire", "10000000000", "1", "0"),
		"three decimal rate":     item("Wire", "100", "1", "18.001"),
	}
	cases["three decimal mrp"] = func() dto.InvoiceItemRequest {
		it := item("Wire", "100", "1", "0")
		it.MRP = d("120.999")
		return it
	}()

	for name, it := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.Create(context.Background(), gstRequest(it))
			require.Error(t, err)
			assert.ErrorIs(t, err, billing.ErrAmountNotStorable)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, f.tx.calls)
		})
	}
}

func TestCreate_AcceptsTrailingZeroScale(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Create(context.Background(), gstRequest(
		item("Wire", "100", "2.500", "0"),
		item("Tape", "9999999999.99", "0.01", "0"),
	))
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "250.00", resp.Items[0].TotalAmount.StringFixed(2))
	// the stored quantity times price reproduces the stored line total
	for _, it := range resp.Items {
		assert.True(t, it.TotalAmount.Equal(it.SalePrice.Mul(it.Quantity).Round(2)), it.ItemName)
	}
}

func TestCreate_NonGSTIgnoresUnstorableRate(t *testing.T) {
	f := newFixture(t)
	req := gstRequest(item("Bag", "250", "1", "18.005"))
	req.InvoiceType = entity.InvoiceTypeNonGST

	resp, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Items[0].GSTPercentage.IsZero())
}

func TestPreview_RejectsAmountsTheColumnsCannotHold(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Preview(dto.PreviewInvoiceRequest{
		InvoiceType: entity.InvoiceTypeGST,
		Items:       []dto.InvoiceItemRequest{item("Wire", "100", "0.333", "0")},
	})
	assert.ErrorIs(t, err, billing.ErrAmountNotStorable)
}

func TestCreate_RetriesNumberConflicts(t *testing.T) {
	f := newFixture(t)
	f.repo.dupTimes = 2

	resp, err := f.uc.Create(context.Background(), gstRequest(item("X", "10", "1", "0")))
	require.NoError(t, err)
	assert.Equal(t, "GST-1", resp.InvoiceNumber)
	assert.Equal(t, 3, f.tx.calls)
	assert.Equal(t, 2, f.metrics.conflicts)
}

func TestCreate_GivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture(t)
	f.repo.dupTimes = 10

	_, err := f.uc.Create(context.Background(), gstRequest(item("X", "10", "1", "0")))
	require.ErrorIs(t, err, billing.ErrNumberExhausted)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, 3, f.tx.calls)
}

func TestCreate_ItemFailureRollsBackInvoice(t *testing.T) {
	f := newFixture(t)
	f.repo.itemErr = errBoom

	_, err := f.uc.Create(context.Background(), gstRequest(item("X", "10", "1", "0")))
	require.ErrorIs(t, err, errBoom)

	n, _ := f.repo.Count(context.Background(), repository.InvoiceFilter{})
	assert.Zero(t, n)
	assert.Empty(t, f.cache.entries)
	assert.Empty(t, f.metrics.created)
}

func TestNextNumber(t *testing.T) {
	f := newFixture(t)

	got, err := f.uc.NextNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GST-1", got.InvoiceNumber)

	require.NoError(t, f.repo.Create(context.Background(), &entity.Invoice{ID: uuid.NewString(), InvoiceNumber: "GST-41"}))
	got, err = f.uc.NextNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GST-42", got.InvoiceNumber)

	require.NoError(t, f.repo.Create(context.Background(), &entity.Invoice{ID: uuid.NewString(), InvoiceNumber: "INV-9"}))
	got, err = f.uc.NextNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GST-1", got.InvoiceNumber)
}

func TestGet_ReadThroughCache(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), gstRequest(item("X", "10", "1", "0")))
	require.NoError(t, err)

	delete(f.cache.entries, created.ID)

	got, err := f.uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNumber, got.InvoiceNumber)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 1, f.metrics.misses)

	again, err := f.uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Same(t, f.cache.entries[created.ID], again)
	assert.Equal(t, 1, f.metrics.hits)
}

func TestGet_CacheErrorFallsBackToRepository(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), gstRequest(item("X", "10", "1", "0")))
	require.NoError(t, err)
	f.cache.getErr = errBoom

	got, err := f.uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), gstRequest(item("X", "10", "1", "0")))
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(context.Background(), created.ID))
	assert.Equal(t, []string{created.ID}, f.cache.deletes)
	assert.Equal(t, 1, f.metrics.deleted)

	items, _ := f.repo.GetItems(context.Background(), created.ID)
	assert.Empty(t, items)

	assert.ErrorIs(t, f.uc.Delete(context.Background(), created.ID), domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.Delete(context.Background(), "nope"), domain.ErrNotFound)
}

func TestPreview(t *testing.T) {
	f := newFixture(t)

	got, err := f.uc.Preview(dto.PreviewInvoiceRequest{
		InvoiceType: entity.InvoiceTypeGST,
		Items:       []dto.InvoiceItemRequest{item("", "99.99", "1", "18")},
	})
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "84.74", got.Lines[0].BasePrice.StringFixed(2))
	assert.Equal(t, "7.63", got.Lines[0].CGSTAmount.StringFixed(2))
	assert.Equal(t, "99.99", got.GrandTotal.StringFixed(2))
	assert.Equal(t, "Ninety Nine Rupees and Ninety Nine Paise Only", got.AmountInWords)
	assert.Zero(t, f.tx.calls)
}

func TestPreview_Empty(t *testing.T) {
	f := newFixture(t)
	got, err := f.uc.Preview(dto.PreviewInvoiceRequest{InvoiceType: entity.InvoiceTypeNonGST})
	require.NoError(t, err)
	assert.True(t, got.GrandTotal.IsZero())
	assert.Equal(t, "Zero Rupees Only", got.AmountInWords)
}

func TestPreview_NonGSTIgnoresLineRate(t *testing.T) {
	f := newFixture(t)
	got, err := f.uc.Preview(dto.PreviewInvoiceRequest{
		InvoiceType: entity.InvoiceTypeNonGST,
		Items:       []dto.InvoiceItemRequest{item("A", "118", "1", "7")},
	})
	require.NoError(t, err)
	assert.Equal(t, "118.00", got.Subtotal.StringFixed(2))
	assert.True(t, got.TotalGST.IsZero())
}

func TestPreview_Rejects(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Preview(dto.PreviewInvoiceRequest{
		InvoiceType: entity.InvoiceTypeGST,
		Items:       []dto.InvoiceItemRequest{item("A", "-1", "1", "18")},
	})
	assert.ErrorIs(t, err, gst.ErrNegativeInput)

	_, err = f.uc.Preview(dto.PreviewInvoiceRequest{
		InvoiceType: entity.InvoiceTypeGST,
		Items:       []dto.InvoiceItemRequest{item("A", "1", "1", "3")},
	})
	assert.ErrorIs(t, err, billing.ErrRateNotAllowed)

	_, err = f.uc.Preview(dto.PreviewInvoiceRequest{InvoiceType: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
