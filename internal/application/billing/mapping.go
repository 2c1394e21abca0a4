package billing

import (
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ToInvoiceResponse maps an invoice and its lines to the API shape.
func ToInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceType:     inv.InvoiceType,
		InvoiceDate:     inv.InvoiceDate.Format(dateLayout),
		PlaceOfSupply:   inv.PlaceOfSupply,
		CustomerName:    inv.CustomerName,
		CustomerContact: inv.CustomerContact,
		CustomerAddress: inv.CustomerAddress,
		CustomerGSTIN:   inv.CustomerGSTIN,
		Subtotal:        inv.Subtotal,
		TotalGST:        inv.TotalGST,
		GrandTotal:      inv.GrandTotal,
		AmountInWords:   inv.AmountInWords,
		PDFURL:          inv.PDFURL,
		CreatedAt:       inv.CreatedAt,
		Items:           make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:            it.ID,
			ItemName:      it.ItemName,
			Description:   it.Description,
			Unit:          it.Unit,
			Quantity:      it.Quantity,
			SalePrice:     it.SalePrice,
			MRP:           it.MRP,
			HSNSACCode:    it.HSNSACCode,
			GSTPercentage: it.GSTPercentage,
			SerialNumber:  it.SerialNumber,
			IMEI1:         it.IMEI1,
			IMEI2:         it.IMEI2,
			BasePrice:     it.BasePrice,
			CGSTAmount:    it.CGSTAmount,
			SGSTAmount:    it.SGSTAmount,
			TotalAmount:   it.TotalAmount,
		})
	}
	return resp
}

// ToInvoiceSummary maps an invoice header to a history row.
func ToInvoiceSummary(inv *entity.Invoice) dto.InvoiceSummary {
	return dto.InvoiceSummary{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceType:     inv.InvoiceType,
		InvoiceDate:     inv.InvoiceDate.Format(dateLayout),
		CustomerName:    inv.CustomerName,
		CustomerContact: inv.CustomerContact,
		Subtotal:        inv.Subtotal,
		TotalGST:        inv.TotalGST,
		GrandTotal:      inv.GrandTotal,
		CreatedAt:       inv.CreatedAt,
	}
}
