package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supermarket-api/internal/domain/repository"
)

// MemoryIdempotencyStore keeps idempotency keys in process memory.
// Keys are lost on restart.
type MemoryIdempotencyStore struct {
	mu   sync.RWMutex
	keys map[string]entity.IdempotencyKey
}

// NewMemoryIdempotencyStore creates an empty in-memory store
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{keys: make(map[string]entity.IdempotencyKey)}
}

var _ domainRepo.IdempotencyRepository = (*MemoryIdempotencyStore)(nil)

func (s *MemoryIdempotencyStore) GetByKey(_ context.Context, key, scope string) (*entity.IdempotencyKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ikey, ok := s.keys[idempotencyKey(scope, key)]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (s *MemoryIdempotencyStore) Reserve(_ context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey(ikey.Scope, ikey.Key)
	if existing, ok := s.keys[k]; ok && !existing.IsExpired() {
		return false, nil
	}
	stored := *ikey
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.keys[k] = stored
	return true, nil
}

func (s *MemoryIdempotencyStore) Complete(_ context.Context, ikey *entity.IdempotencyKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey(ikey.Scope, ikey.Key)
	stored, ok := s.keys[k]
	if !ok {
		return fmt.Errorf("idempotency key %s is not reserved", k)
	}
	stored.Endpoint = ikey.Endpoint
	stored.ResponseCode = ikey.ResponseCode
	stored.ResponseBody = ikey.ResponseBody
	s.keys[k] = stored
	return nil
}

func (s *MemoryIdempotencyStore) Release(_ context.Context, key, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey(scope, key)
	if stored, ok := s.keys[k]; ok && stored.InProgress() {
		delete(s.keys, k)
	}
	return nil
}

func (s *MemoryIdempotencyStore) DeleteExpired(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for k, v := range s.keys {
		if now.After(v.ExpiresAt) {
			delete(s.keys, k)
		}
	}
	return nil
}

// Len returns the number of stored keys, expired ones included.
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
