package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/enum"
	"github.com/sangkips/supermarket-api/pkg/email"
	"github.com/shopspring/decimal"
)

var errDiskFull = errors.New("disk full")

type fakeProductRepo struct {
	mu       sync.Mutex
	catalog  *entity.Catalog
	saves    int
	loadErr  error
	saveErrs []error // consumed one per SaveAll call
}

func newFakeProductRepo(products ...entity.Product) *fakeProductRepo {
	return &fakeProductRepo{catalog: entity.NewCatalog(products...)}
}

func (r *fakeProductRepo) LoadAll(context.Context) (*entity.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.catalog.Clone(), nil
}

func (r *fakeProductRepo) SaveAll(_ context.Context, c *entity.Catalog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if len(r.saveErrs) > 0 {
		err := r.saveErrs[0]
		r.saveErrs = r.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	r.catalog = c.Clone()
	return nil
}

func (r *fakeProductRepo) quantity(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, _ := r.catalog.Get(id)
	return p.Quantity
}

type fakeBillRepo struct {
	mu        sync.Mutex
	bills     []entity.Bill
	appendErr error
	loadErr   error
}

func (r *fakeBillRepo) Append(_ context.Context, b *entity.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.bills = append(r.bills, *b)
	return nil
}

func (r *fakeBillRepo) LoadAll(context.Context) ([]entity.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	out := make([]entity.Bill, len(r.bills))
	copy(out, r.bills)
	return out, nil
}

func (r *fakeBillRepo) GetByID(_ context.Context, id string) (*entity.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	for i := range r.bills {
		if r.bills[i].ID == id {
			b := r.bills[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bills)
}

type fakeMailer struct {
	to     string
	alerts []email.LowStockAlert
	err    error
}

func (m *fakeMailer) SendLowStockAlert(to string, alert email.LowStockAlert) error {
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.alerts = append(m.alerts, alert)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(id, name, category, price string, qty, minStock int, tax string) entity.Product {
	return entity.Product{
		ID:            id,
		Name:          name,
		Category:      category,
		Price:         dec(price),
		Quantity:      qty,
		MinStockLevel: minStock,
		TaxRate:       dec(tax),
	}
}

func bill(id, name, phone string, at time.Time, lines ...entity.BillLineItem) entity.Bill {
	b := entity.Bill{
		ID:          id,
		Customer:    entity.Customer{Name: name, Phone: phone},
		Items:       lines,
		Subtotal:    decimal.Zero,
		TaxAmount:   decimal.Zero,
		TotalAmount: decimal.Zero,
		CreatedAt:   at,
		Status:      enum.BillStatusCompleted,
	}
	for _, l := range lines {
		b.Subtotal = b.Subtotal.Add(l.TotalPrice)
		b.TaxAmount = b.TaxAmount.Add(l.TaxAmount)
	}
	b.TotalAmount = b.Subtotal.Add(b.TaxAmount)
	return b
}

func line(productID, name string, qty int, unit, tax string) entity.BillLineItem {
	total := dec(unit).Mul(decimal.NewFromInt(int64(qty)))
	return entity.BillLineItem{
		ProductID:   productID,
		ProductName: name,
		Quantity:    qty,
		UnitPrice:   dec(unit),
		TotalPrice:  total,
		TaxAmount:   total.Mul(dec(tax)),
	}
}

func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}
