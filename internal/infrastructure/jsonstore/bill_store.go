package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/sangkips/supermarket-api/internal/domain/enum"
	domainRepo "github.com/sangkips/supermarket-api/internal/domain/repository"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Timestamps from older installs carry no zone offset.
var legacyTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type billRecord struct {
	ID          string                `json:"id"`
	LegacyID    string                `json:"bill_id,omitempty"`
	Customer    *entity.Customer      `json:"customer"`
	Items       []entity.BillLineItem `json:"items"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	TaxAmount   decimal.Decimal       `json:"tax_amount"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	CreatedAt   string                `json:"created_at"`
	Status      *enum.BillStatus      `json:"status"`
}

func (r billRecord) toEntity(loc *time.Location) (entity.Bill, error) {
	id := r.ID
	if id == "" {
		id = r.LegacyID
	}
	if id == "" {
		return entity.Bill{}, errors.New("missing bill id")
	}
	if r.Customer == nil {
		return entity.Bill{}, errors.New("missing customer")
	}
	if r.Items == nil {
		return entity.Bill{}, errors.New("missing items")
	}
	createdAt, err := parseTimestamp(r.CreatedAt, loc)
	if err != nil {
		return entity.Bill{}, err
	}
	status := enum.BillStatusPending
	if r.Status != nil {
		status = *r.Status
	}
	return entity.Bill{
		ID:          id,
		Customer:    *r.Customer,
		Items:       r.Items,
		Subtotal:    r.Subtotal,
		TaxAmount:   r.TaxAmount,
		TotalAmount: r.TotalAmount,
		CreatedAt:   createdAt,
		Status:      status,
	}, nil
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing created_at")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised created_at %q", s)
}

// BillStore keeps the bill history in bills.json as a JSON array.
// Records it cannot decode are skipped on read but preserved on write.
type BillStore struct {
	path string
	loc  *time.Location
	mu   sync.Mutex
}

// NewBillStore creates a bill store rooted at dataDir. loc interprets
// timestamps that were written without an offset.
func NewBillStore(dataDir string, loc *time.Location) *BillStore {
	if loc == nil {
		loc = time.Local
	}
	return &BillStore{path: filepath.Join(dataDir, BillsFile), loc: loc}
}

var _ domainRepo.BillRepository = (*BillStore)(nil)

func (s *BillStore) readRaw() ([]json.RawMessage, error) {
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return raw, nil
}

func (s *BillStore) Append(ctx context.Context, bill *entity.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.readRaw()
	if err != nil {
		return err
	}
	rec, err := json.Marshal(toRecord(bill))
	if err != nil {
		return fmt.Errorf("encode bill %s: %w", bill.ID, err)
	}
	raw = append(raw, rec)

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bills: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func (s *BillStore) LoadAll(ctx context.Context) ([]entity.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	raw, err := s.readRaw()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	bills := make([]entity.Bill, 0, len(raw))
	for i, r := range raw {
		var rec billRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			logx.Warn().Err(err).Int("index", i).Msg("skipping invalid bill record")
			continue
		}
		bill, err := rec.toEntity(s.loc)
		if err != nil {
			logx.Warn().Err(err).Int("index", i).Msg("skipping invalid bill record")
			continue
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

func (s *BillStore) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	bills, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		if bills[i].ID == id {
			return &bills[i], nil
		}
	}
	return nil, nil
}

func toRecord(b *entity.Bill) billRecord {
	status := b.Status
	customer := b.Customer
	items := b.Items
	if items == nil {
		items = []entity.BillLineItem{}
	}
	return billRecord{
		ID:          b.ID,
		Customer:    &customer,
		Items:       items,
		Subtotal:    b.Subtotal,
		TaxAmount:   b.TaxAmount,
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339Nano),
		Status:      &status,
	}
}
