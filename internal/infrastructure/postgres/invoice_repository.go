package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo persists invoices and items; works over a pool or a tx.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass a pool or a tx.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, invoice_type, invoice_date, place_of_supply,
	customer_name, customer_contact, customer_address, customer_gstin,
	subtotal, total_gst, grand_total, amount_in_words, pdf_url, created_at, updated_at`

// Create inserts the invoice header. A taken invoice number yields domain.ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.InvoiceType, inv.InvoiceDate, inv.PlaceOfSupply,
		inv.CustomerName, inv.CustomerContact, inv.CustomerAddress, nullIfEmpty(inv.CustomerGSTIN),
		inv.Subtotal, inv.TotalGST, inv.GrandTotal, inv.AmountInWords, nullIfEmpty(inv.PDFURL),
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem inserts one invoice line.
func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, item_name, description, unit, quantity,
			sale_price, mrp, hsn_sac_code, gst_percentage, serial_number, imei1, imei2,
			base_price, cgst_amount, sgst_amount, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.InvoiceID, it.ItemName, it.Description, it.Unit, it.Quantity,
		it.SalePrice, it.MRP, it.HSNSACCode, it.GSTPercentage,
		nullIfEmpty(it.SerialNumber), nullIfEmpty(it.IMEI1), nullIfEmpty(it.IMEI2),
		it.BasePrice, it.CGSTAmount, it.SGSTAmount, it.TotalAmount, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID returns the invoice header or nil when it does not exist.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItems returns the lines of an invoice in insertion order.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, item_name, description, unit, quantity, sale_price, mrp,
		       hsn_sac_code, gst_percentage, serial_number, imei1, imei2,
		       base_price, cgst_amount, sgst_amount, total_amount, created_at
		FROM invoice_items WHERE invoice_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		var serial, imei1, imei2 *string
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ItemName, &it.Description, &it.Unit, &it.Quantity,
			&it.SalePrice, &it.MRP, &it.HSNSACCode, &it.GSTPercentage, &serial, &imei1, &imei2,
			&it.BasePrice, &it.CGSTAmount, &it.SGSTAmount, &it.TotalAmount, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		it.SerialNumber = derefString(serial)
		it.IMEI1 = derefString(imei1)
		it.IMEI2 = derefString(imei2)
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List returns invoices matching the filter, newest first.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	where, args := buildInvoiceWhere(f)
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Count returns how many invoices match the filter, ignoring pagination.
func (r *InvoiceRepo) Count(ctx context.Context, f repository.InvoiceFilter) (int, error) {
	where, args := buildInvoiceWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// Delete removes an invoice; items go with it through ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastInvoiceNumber returns the most recently created invoice number or "".
func (r *InvoiceRepo) LastInvoiceNumber(ctx context.Context) (string, error) {
	var number string
	err := r.q.QueryRow(ctx,
		`SELECT invoice_number FROM invoices ORDER BY created_at DESC LIMIT 1`).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return number, nil
}

// SumGrandTotal adds grand_total for invoice dates in [from, to].
func (r *InvoiceRepo) SumGrandTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(grand_total), 0)
		FROM invoices
		WHERE invoice_date BETWEEN $1::date AND $2::date`, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum grand total: %w", err)
	}
	return total, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var gstin, pdfURL *string
	if err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.InvoiceType, &inv.InvoiceDate, &inv.PlaceOfSupply,
		&inv.CustomerName, &inv.CustomerContact, &inv.CustomerAddress, &gstin,
		&inv.Subtotal, &inv.TotalGST, &inv.GrandTotal, &inv.AmountInWords, &pdfURL,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.CustomerGSTIN = derefString(gstin)
	inv.PDFURL = derefString(pdfURL)
	return &inv, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildInvoiceWhere turns the filter into a WHERE clause with positional args.
func buildInvoiceWhere(f repository.InvoiceFilter) (string, []any) {
	var conds []string
	var args []any

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+likeEscaper.Replace(s)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(customer_name ILIKE $%d OR invoice_number ILIKE $%d)", n, n))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("invoice_type = $%d", len(args)))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("invoice_date >= $%d::date", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("invoice_date <= $%d::date", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
