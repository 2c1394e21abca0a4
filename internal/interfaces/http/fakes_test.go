package http_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

// memStore backs both repositories; insertion order stands in for created_at.
type memStore struct {
	mu       sync.Mutex
	invoices []*entity.Invoice
	items    map[string][]*entity.InvoiceItem
	users    map[string]*entity.User
}

func newMemStore() *memStore {
	return &memStore{items: map[string][]*entity.InvoiceItem{}, users: map[string]*entity.User{}}
}

type memInvoices struct{ s *memStore }

var _ repository.InvoiceRepository = memInvoices{}

func (r memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.invoices {
		if e.InvoiceNumber == inv.InvoiceNumber {
			return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, domain.ErrDuplicate)
		}
	}
	cp := *inv
	r.s.invoices = append(r.s.invoices, &cp)
	return nil
}

func (r memInvoices) CreateItem(_ context.Context, it *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *it
	r.s.items[it.InvoiceID] = append(r.s.items[it.InvoiceID], &cp)
	return nil
}

func (r memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memInvoices) GetItems(_ context.Context, id string) ([]*entity.InvoiceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*entity.InvoiceItem(nil), r.s.items[id]...), nil
}

func (r memInvoices) matching(f repository.InvoiceFilter) []*entity.Invoice {
	var out []*entity.Invoice
	for i := len(r.s.invoices) - 1; i >= 0; i-- {
		inv := r.s.invoices[i]
		if f.Type != "" && inv.InvoiceType != f.Type {
			continue
		}
		if f.Search != "" &&
			!strings.Contains(strings.ToLower(inv.CustomerName), strings.ToLower(f.Search)) &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func (r memInvoices) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.matching(f)
	if f.Offset > len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memInvoices) Count(_ context.Context, f repository.InvoiceFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.matching(f)), nil
}

func (r memInvoices) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, inv := range r.s.invoices {
		if inv.ID == id {
			r.s.invoices = append(r.s.invoices[:i], r.s.invoices[i+1:]...)
			delete(r.s.items, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memInvoices) LastInvoiceNumber(_ context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(r.s.invoices) == 0 {
		return "", nil
	}
	return r.s.invoices[len(r.s.invoices)-1].InvoiceNumber, nil
}

func (r memInvoices) SumGrandTotal(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, inv := range r.s.invoices {
		if !inv.InvoiceDate.Before(from) && !inv.InvoiceDate.After(to) {
			total = total.Add(inv.GrandTotal)
		}
	}
	return total, nil
}

type memTx struct{ repo memInvoices }

var _ billing.TxRunner = memTx{}

func (t memTx) RunBilling(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(t.repo)
}

type memUsers struct{ s *memStore }

var _ repository.UserRepository = memUsers{}

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.s.users[u.Email] = u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.users[email], nil
}

// stubRenderer stands in for the PDF and HTML renderers.
type stubRenderer struct{}

func (stubRenderer) GenerateInvoicePDF(_ context.Context, doc *billing.InvoiceDocument) ([]byte, error) {
	return []byte("%PDF-1.3 " + doc.Invoice.InvoiceNumber), nil
}

func (stubRenderer) RenderInvoiceHTML(_ context.Context, doc *billing.InvoiceDocument) ([]byte, error) {
	return []byte("<html>" + doc.Title() + "</html>"), nil
}
