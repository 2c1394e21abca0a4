package billing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

type stubRenderer struct {
	got *billing.InvoiceDocument
	err error
}

func (s *stubRenderer) GenerateInvoicePDF(_ context.Context, doc *billing.InvoiceDocument) ([]byte, error) {
	s.got = doc
	return []byte("%PDF-1.3"), s.err
}

func (s *stubRenderer) RenderInvoiceHTML(_ context.Context, doc *billing.InvoiceDocument) ([]byte, error) {
	s.got = doc
	return []byte("<html></html>"), s.err
}

func TestDocumentUseCase_PDF(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), gstRequest(
		item("Phone", "11800", "1", "18"),
		item("Cover", "236", "2", "18"),
	))
	require.NoError(t, err)

	r := &stubRenderer{}
	shop := dto.ShopProfile{Name: "Das Sales And Service", GSTIN: "19CCUPD0463N1Z1"}
	uc := billing.NewDocumentUseCase(f.repo, shop, r, r)

	body, filename, err := uc.PDF(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(body))
	assert.Equal(t, "invoice_GST-1.pdf", filename)

	require.NotNil(t, r.got)
	assert.Equal(t, shop, r.got.Shop)
	assert.Equal(t, "INVOICE GST-1", r.got.Title())
	assert.Len(t, r.got.Items, 2)
	assert.Equal(t, "3", r.got.TotalQuantity().String())
	assert.True(t, r.got.ShowTaxBreakdown())
}

func TestDocumentUseCase_HTML(t *testing.T) {
	f := newFixture(t)
	req := gstRequest(item("Bag", "100", "1", "0"))
	req.InvoiceType = entity.InvoiceTypeNonGST
	created, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)

	r := &stubRenderer{}
	uc := billing.NewDocumentUseCase(f.repo, dto.ShopProfile{}, r, r)

	page, err := uc.HTML(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<html>")
	assert.False(t, r.got.ShowTaxBreakdown())
}

func TestDocumentUseCase_NotFound(t *testing.T) {
	f := newFixture(t)
	r := &stubRenderer{}
	uc := billing.NewDocumentUseCase(f.repo, dto.ShopProfile{}, r, r)

	_, _, err := uc.PDF(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.HTML(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, r.got)
}

func TestDocumentUseCase_RendererError(t *testing.T) {
	f := newFixture(t)
	created, err := f.uc.Create(context.Background(), gstRequest(item("X", "1", "1", "0")))
	require.NoError(t, err)

	r := &stubRenderer{err: errBoom}
	uc := billing.NewDocumentUseCase(f.repo, dto.ShopProfile{}, r, r)
	_, _, err = uc.PDF(context.Background(), created.ID)
	assert.ErrorIs(t, err, errBoom)
}

func TestItemDetails(t *testing.T) {
	it := &entity.InvoiceItem{
		Description:  "Colour:Black\n\n  RAM : 8GB \nDual SIM",
		IMEI1:        "356938035643809",
		IMEI2:        "356938035643817",
		SerialNumber: "SN-42",
	}
	assert.Equal(t, []string{
		"Colour : Black",
		"RAM : 8GB",
		"Dual SIM",
		"IMEI : 356938035643809",
		"IMEI : 356938035643817",
		"S/N : SN-42",
	}, billing.ItemDetails(it))

	assert.Empty(t, billing.ItemDetails(&entity.InvoiceItem{}))
}

func TestSettingsUseCase(t *testing.T) {
	catalog, err := billing.NewCatalog([]string{"0", "18"}, []string{"PCS"}, "18", "PCS")
	require.NoError(t, err)
	uc := billing.NewSettingsUseCase(catalog, dto.ShopProfile{Name: "Shop"}, "GST")

	got := uc.Get()
	assert.Equal(t, "Shop", got.Shop.Name)
	assert.Equal(t, "GST", got.NumberPrefix)
	assert.Equal(t, []string{"0", "18"}, got.GSTRates)
	assert.Equal(t, "18", got.DefaultRate)
	assert.Equal(t, "PCS", got.DefaultUnit)
}
