package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gst-billing-api/internal/application/billing"
	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/internal/domain/repository"
)

// memInvoiceRepo is an in-memory InvoiceRepository. Order of Create calls
// stands in for created_at.
type memInvoiceRepo struct {
	mu        sync.Mutex
	invoices  []*entity.Invoice
	items     map[string][]*entity.InvoiceItem
	dupTimes  int   // next N Create calls report a taken number
	itemErr   error // returned by CreateItem when set
	createErr error
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{items: map[string][]*entity.InvoiceItem{}}
}

var _ repository.InvoiceRepository = (*memInvoiceRepo)(nil)

func (r *memInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if r.dupTimes > 0 {
		r.dupTimes--
		return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, domain.ErrDuplicate)
	}
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return fmt.Errorf("invoice number %s: %w", inv.InvoiceNumber, domain.ErrDuplicate)
		}
	}
	cp := *inv
	r.invoices = append(r.invoices, &cp)
	return nil
}

func (r *memInvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.itemErr != nil {
		return r.itemErr
	}
	cp := *item
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], &cp)
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memInvoiceRepo) GetItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.InvoiceItem(nil), r.items[invoiceID]...), nil
}

func (r *memInvoiceRepo) List(_ context.Context, _ repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Invoice, 0, len(r.invoices))
	for i := len(r.invoices) - 1; i >= 0; i-- {
		out = append(out, r.invoices[i])
	}
	return out, nil
}

func (r *memInvoiceRepo) Count(_ context.Context, _ repository.InvoiceFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.invoices), nil
}

func (r *memInvoiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, inv := range r.invoices {
		if inv.ID == id {
			r.invoices = append(r.invoices[:i], r.invoices[i+1:]...)
			delete(r.items, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memInvoiceRepo) LastInvoiceNumber(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.invoices) == 0 {
		return "", nil
	}
	return r.invoices[len(r.invoices)-1].InvoiceNumber, nil
}

func (r *memInvoiceRepo) SumGrandTotal(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, inv := range r.invoices {
		if !inv.InvoiceDate.Before(from) && !inv.InvoiceDate.After(to) {
			total = total.Add(inv.GrandTotal)
		}
	}
	return total, nil
}

func (r *memInvoiceRepo) snapshot() ([]*entity.Invoice, map[string][]*entity.InvoiceItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invs := append([]*entity.Invoice(nil), r.invoices...)
	items := make(map[string][]*entity.InvoiceItem, len(r.items))
	for k, v := range r.items {
		items[k] = append([]*entity.InvoiceItem(nil), v...)
	}
	return invs, items
}

func (r *memInvoiceRepo) restore(invs []*entity.Invoice, items map[string][]*entity.InvoiceItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = invs
	r.items = items
}

// memTx restores the repository to its prior state when fn fails.
type memTx struct {
	repo  *memInvoiceRepo
	calls int
}

var _ billing.TxRunner = (*memTx)(nil)

func (t *memTx) RunBilling(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	t.calls++
	invs, items := t.repo.snapshot()
	if err := fn(t.repo); err != nil {
		t.repo.restore(invs, items)
		return err
	}
	return nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]*dto.InvoiceResponse
	getErr  error
	deletes []string
}

var _ billing.InvoiceCache = (*memCache)(nil)

func newMemCache() *memCache { return &memCache{entries: map[string]*dto.InvoiceResponse{}} }

func (c *memCache) Get(_ context.Context, id string) (*dto.InvoiceResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[id], nil
}

func (c *memCache) Set(_ context.Context, inv *dto.InvoiceResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[inv.ID] = inv
	return nil
}

func (c *memCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.deletes = append(c.deletes, id)
	return nil
}

type countingMetrics struct {
	created   map[string]int
	deleted   int
	conflicts int
	hits      int
	misses    int
}

func newCountingMetrics() *countingMetrics { return &countingMetrics{created: map[string]int{}} }

func (m *countingMetrics) InvoiceCreated(t string, _ decimal.Decimal) { m.created[t]++ }
func (m *countingMetrics) InvoiceDeleted()                            { m.deleted++ }
func (m *countingMetrics) NumberConflict()                            { m.conflicts++ }
func (m *countingMetrics) CacheLookup(hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

var errBoom = errors.New("boom")
