package repository

import (
	"context"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
)

// BillRepository is the append-only bill history.
type BillRepository interface {
	// Append stores one completed bill
	Append(ctx context.Context, bill *entity.Bill) error
	// LoadAll returns every bill in insertion order
	LoadAll(ctx context.Context) ([]entity.Bill, error)
	// GetByID returns nil, nil when no bill has the id
	GetByID(ctx context.Context, id string) (*entity.Bill, error)
}
