package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

// DocumentUseCase produces the printable renditions of a stored invoice.
type DocumentUseCase struct {
	invoiceRepo repository.InvoiceRepository
	shop        dto.ShopProfile
	pdf         InvoicePDFGenerator
	html        InvoiceHTMLRenderer
}

// NewDocumentUseCase wires the renderers with the shop profile printed in the header.
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	shop dto.ShopProfile,
	pdf InvoicePDFGenerator,
	html InvoiceHTMLRenderer,
) *DocumentUseCase {
	return &DocumentUseCase{invoiceRepo: invoiceRepo, shop: shop, pdf: pdf, html: html}
}

// Document loads the invoice and its lines.
//
// Returns domain.ErrNotFound when the invoice does not exist.
func (uc *DocumentUseCase) Document(ctx context.Context, invoiceID string) (*InvoiceDocument, error) {
	if _, err := uuid.Parse(invoiceID); err != nil {
		return nil, domain.ErrNotFound
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("document: load invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItems(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("document: load items: %w", err)
	}
	return &InvoiceDocument{Shop: uc.shop, Invoice: inv, Items: items}, nil
}

// PDF renders the invoice and returns the bytes with a download filename.
func (uc *DocumentUseCase) PDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.Document(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.pdf.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("document: render pdf: %w", err)
	}
	return pdfBytes, doc.Filename(), nil
}

// HTML renders the print page for the browser.
func (uc *DocumentUseCase) HTML(ctx context.Context, invoiceID string) ([]byte, error) {
	doc, err := uc.Document(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	page, err := uc.html.RenderInvoiceHTML(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("document: render html: %w", err)
	}
	return page, nil
}
