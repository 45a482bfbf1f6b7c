package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/enum"
	"github.com/sangkips/supermarket-api/internal/domain/repository"
	"github.com/sangkips/supermarket-api/pkg/apperror"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/sangkips/supermarket-api/pkg/pagination"
	"github.com/sangkips/supermarket-api/pkg/utils"
	"github.com/shopspring/decimal"
)

const maxBillIDAttempts = 5

// BillingService rings up sales and answers bill history queries
type BillingService struct {
	productRepo repository.ProductRepository
	billRepo    repository.BillRepository
	guard       *CatalogGuard
	newID       func() string
	now         func() time.Time
}

// BillingOption customises a BillingService
type BillingOption func(*BillingService)

// WithBillIDGenerator replaces the random bill id source
func WithBillIDGenerator(fn func() string) BillingOption {
	return func(s *BillingService) { s.newID = fn }
}

// WithBillingClock replaces time.Now
func WithBillingClock(fn func() time.Time) BillingOption {
	return func(s *BillingService) { s.now = fn }
}

// NewBillingService creates a new billing service
func NewBillingService(
	productRepo repository.ProductRepository,
	billRepo repository.BillRepository,
	guard *CatalogGuard,
	opts ...BillingOption,
) *BillingService {
	s := &BillingService{
		productRepo: productRepo,
		billRepo:    billRepo,
		guard:       guard,
		newID:       utils.NewBillID,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CustomerInput is the customer as typed at the till
type CustomerInput struct {
	Name  string
	Phone string
	Email *string
}

// RequestedItem is one product and quantity to sell. Order is preserved on the bill.
type RequestedItem struct {
	ProductID string
	Quantity  int
}

func validateSale(customer CustomerInput, items []RequestedItem) (entity.Customer, error) {
	var errs fieldErrors

	c := entity.Customer{
		Name:  strings.TrimSpace(customer.Name),
		Phone: strings.TrimSpace(customer.Phone),
	}
	if c.Name == "" {
		errs.add("customer.name", "Customer name is required")
	}
	if c.Phone == "" {
		errs.add("customer.phone", "Phone number is required")
	}
	if customer.Email != nil && !isBlank(*customer.Email) {
		email := strings.TrimSpace(*customer.Email)
		if !isEmail(email) {
			errs.add("customer.email", "Email address is invalid")
		}
		c.Email = &email
	}

	if len(items) == 0 {
		errs.add("items", "At least one item is required")
	}
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		if isBlank(item.ProductID) {
			errs.add(field+".product_id", "Product id is required")
		} else if seen[item.ProductID] {
			errs.add(field+".product_id", "Product "+item.ProductID+" is listed more than once")
		}
		seen[item.ProductID] = true
		if item.Quantity <= 0 {
			errs.add(field+".quantity", "Quantity must be greater than 0")
		}
	}

	return c, errs.err()
}

// priceLines checks every item against one catalog snapshot and prices it.
// Nothing is mutated; the first failing item decides the error.
func priceLines(snapshot *entity.Catalog, items []RequestedItem) ([]entity.BillLineItem, error) {
	lines := make([]entity.BillLineItem, 0, len(items))
	for _, item := range items {
		product, ok := snapshot.Get(item.ProductID)
		if !ok {
			return nil, &apperror.ProductNotFoundError{ProductID: item.ProductID}
		}
		if item.Quantity > product.Quantity {
			return nil, &apperror.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Quantity,
			}
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines = append(lines, entity.BillLineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  lineTotal,
			TaxAmount:   lineTotal.Mul(product.TaxRate),
		})
	}
	return lines, nil
}

// CreateBill sells items to customer. Either the whole sale is recorded with
// the catalog decremented, or nothing changes; a *PersistenceError means the
// stores failed and the outcome must be checked.
func (s *BillingService) CreateBill(ctx context.Context, customer CustomerInput, items []RequestedItem) (*entity.Bill, error) {
	c, err := validateSale(customer, items)
	if err != nil {
		return nil, err
	}

	var bill *entity.Bill
	err = s.guard.Do(func() error {
		snapshot, err := s.productRepo.LoadAll(ctx)
		if err != nil {
			return apperror.NewPersistenceError("load catalog", err)
		}

		lines, err := priceLines(snapshot, items)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		totalTax := decimal.Zero
		working := snapshot.Clone()
		for _, line := range lines {
			subtotal = subtotal.Add(line.TotalPrice)
			totalTax = totalTax.Add(line.TaxAmount)

			p, _ := working.Get(line.ProductID)
			p.Quantity -= line.Quantity
			working.Upsert(p)
		}

		id, err := s.uniqueBillID(ctx)
		if err != nil {
			return err
		}

		b := &entity.Bill{
			ID:          id,
			Customer:    c,
			Items:       lines,
			Subtotal:    subtotal,
			TaxAmount:   totalTax,
			TotalAmount: subtotal.Add(totalTax),
			CreatedAt:   s.now(),
			Status:      enum.BillStatusCompleted,
		}

		if err := s.productRepo.SaveAll(ctx, working); err != nil {
			return apperror.NewPersistenceError("save catalog", err)
		}
		if err := s.billRepo.Append(ctx, b); err != nil {
			// Best-effort restore; ctx may already be cancelled.
			if rerr := s.productRepo.SaveAll(context.WithoutCancel(ctx), snapshot); rerr != nil {
				logx.Error().Err(rerr).Str("bill_id", b.ID).Msg("failed to restore catalog after bill append failure")
			}
			return apperror.NewPersistenceError("append bill", err)
		}

		bill = b
		return nil
	})
	if err != nil {
		var persist *apperror.PersistenceError
		if errors.As(err, &persist) {
			logx.Error().Err(err).Str("op", persist.Op).Msg("bill creation failed in storage")
		}
		return nil, err
	}

	logx.Info().
		Str("bill_id", bill.ID).
		Int("items", len(bill.Items)).
		Str("total", bill.TotalAmount.String()).
		Msg("bill created")
	return bill, nil
}

func (s *BillingService) uniqueBillID(ctx context.Context) (string, error) {
	for i := 0; i < maxBillIDAttempts; i++ {
		id := s.newID()
		existing, err := s.billRepo.GetByID(ctx, id)
		if err != nil {
			return "", apperror.NewPersistenceError("load bills", err)
		}
		if existing == nil {
			return id, nil
		}
	}
	return "", apperror.NewAppError(500, "could not allocate a unique bill id")
}

// GetBill returns one bill by id
func (s *BillingService) GetBill(ctx context.Context, id string) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("load bills", err)
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

func (s *BillingService) loadBills(ctx context.Context) ([]entity.Bill, error) {
	bills, err := s.billRepo.LoadAll(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError("load bills", err)
	}
	return bills, nil
}

func newestFirst(bills []entity.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].CreatedAt.After(bills[j].CreatedAt)
	})
}

// ListBills returns bills newest first, one page at a time
func (s *BillingService) ListBills(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, err := s.loadBills(ctx)
	if err != nil {
		return nil, err
	}
	newestFirst(bills)
	return pagination.Paginate(bills, params), nil
}

// SearchByCustomerName matches a case-insensitive substring of the customer name
func (s *BillingService) SearchByCustomerName(ctx context.Context, name string) ([]entity.Bill, error) {
	bills, err := s.loadBills(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	out := make([]entity.Bill, 0)
	for _, b := range bills {
		if strings.Contains(strings.ToLower(b.Customer.Name), needle) {
			out = append(out, b)
		}
	}
	newestFirst(out)
	return out, nil
}

// BillsByPhone returns every bill for a customer phone number, newest first
func (s *BillingService) BillsByPhone(ctx context.Context, phone string) ([]entity.Bill, error) {
	bills, err := s.loadBills(ctx)
	if err != nil {
		return nil, err
	}
	phone = strings.TrimSpace(phone)
	out := make([]entity.Bill, 0)
	for _, b := range bills {
		if b.Customer.Phone == phone {
			out = append(out, b)
		}
	}
	newestFirst(out)
	return out, nil
}

// CustomerByPhone returns the customer details from their most recent bill
func (s *BillingService) CustomerByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	bills, err := s.BillsByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, apperror.NewNotFoundError("Customer")
	}
	c := bills[0].Customer
	return &c, nil
}
