package repository

import (
	"context"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and scope; nil, nil when absent
	GetByKey(ctx context.Context, key, scope string) (*entity.IdempotencyKey, error)
	// Reserve stores ikey as in progress unless a live key with the same key and
	// scope exists. It reports whether the caller now owns the key.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Complete records the response on a reserved key
	Complete(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Release drops a reservation that is still in progress
	Release(ctx context.Context, key, scope string) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
