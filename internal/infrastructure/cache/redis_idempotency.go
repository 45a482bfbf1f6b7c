package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/supermarket-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supermarket-api/internal/domain/repository"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
)

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// RedisIdempotencyStore keeps idempotency keys in Redis; expiry is left to key TTLs.
type RedisIdempotencyStore struct {
	rdb redis.Cmdable
}

// NewRedisIdempotencyStore creates a store on top of rdb
func NewRedisIdempotencyStore(rdb redis.Cmdable) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb}
}

var _ domainRepo.IdempotencyRepository = (*RedisIdempotencyStore)(nil)

func (s *RedisIdempotencyStore) GetByKey(ctx context.Context, key, scope string) (*entity.IdempotencyKey, error) {
	rk := idempotencyKey(scope, key)
	b, err := s.rdb.Get(ctx, rk).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("key", rk).Msg("failed to read idempotency key from redis")
		return nil, fmt.Errorf("redis get %s: %w", rk, err)
	}

	var ikey entity.IdempotencyKey
	if err := json.Unmarshal(b, &ikey); err != nil {
		return nil, fmt.Errorf("unmarshal idempotency key: %w", err)
	}
	return &ikey, nil
}

// Reserve claims the key with SETNX so only one request runs under it
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	ttl := time.Until(ikey.ExpiresAt)
	if ttl <= 0 {
		return false, fmt.Errorf("idempotency key %s already expired", ikey.Key)
	}
	b, err := marshalKey(ikey)
	if err != nil {
		return false, err
	}

	rk := idempotencyKey(ikey.Scope, ikey.Key)
	ok, err := s.rdb.SetNX(ctx, rk, b, ttl).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", rk).Msg("failed to reserve idempotency key in redis")
		return false, fmt.Errorf("redis setnx %s: %w", rk, err)
	}
	return ok, nil
}

// Complete overwrites the reservation and keeps its TTL
func (s *RedisIdempotencyStore) Complete(ctx context.Context, ikey *entity.IdempotencyKey) error {
	b, err := marshalKey(ikey)
	if err != nil {
		return err
	}

	rk := idempotencyKey(ikey.Scope, ikey.Key)
	ok, err := s.rdb.SetXX(ctx, rk, b, redis.KeepTTL).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", rk).Msg("failed to store idempotency key in redis")
		return fmt.Errorf("redis set %s: %w", rk, err)
	}
	if !ok {
		return fmt.Errorf("idempotency key %s is not reserved", rk)
	}
	return nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key, scope string) error {
	rk := idempotencyKey(scope, key)
	existing, err := s.GetByKey(ctx, key, scope)
	if err != nil || existing == nil || !existing.InProgress() {
		return err
	}
	if err := s.rdb.Del(ctx, rk).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", rk, err)
	}
	return nil
}

func marshalKey(ikey *entity.IdempotencyKey) ([]byte, error) {
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	b, err := json.Marshal(ikey)
	if err != nil {
		return nil, fmt.Errorf("marshal idempotency key: %w", err)
	}
	return b, nil
}

// DeleteExpired is a no-op; Redis evicts keys when their TTL runs out.
func (s *RedisIdempotencyStore) DeleteExpired(context.Context) error {
	return nil
}
