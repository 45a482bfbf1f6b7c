package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIdempotencyStore_ScopedKeys(t *testing.T) {
	store := NewMemoryIdempotencyStore()
	ctx := context.Background()

	ikey := &entity.IdempotencyKey{Key: "k1", Scope: "ip:10.0.0.1", ExpiresAt: time.Now().Add(time.Hour)}
	reserved, err := store.Reserve(ctx, ikey)
	require.NoError(t, err)
	require.True(t, reserved)
	ikey.ResponseCode = 201
	ikey.ResponseBody = `{"success":true}`
	require.NoError(t, store.Complete(ctx, ikey))

	got, err := store.GetByKey(ctx, "k1", "ip:10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)
	assert.False(t, got.InProgress())
	assert.False(t, got.CreatedAt.IsZero())

	other, err := store.GetByKey(ctx, "k1", "ip:10.0.0.2")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestMemoryIdempotencyStore_DeleteExpired(t *testing.T) {
	store := NewMemoryIdempotencyStore()
	ctx := context.Background()

	_, err := store.Reserve(ctx, &entity.IdempotencyKey{Key: "old", Scope: "s", ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	_, err = store.Reserve(ctx, &entity.IdempotencyKey{Key: "new", Scope: "s", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	require.NoError(t, store.DeleteExpired(ctx))
	assert.Equal(t, 1, store.Len())

	got, err := store.GetByKey(ctx, "new", "s")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMemoryIdempotencyStore_ReserveIsExclusive(t *testing.T) {
	store := NewMemoryIdempotencyStore()
	ctx := context.Background()
	newKey := func(expires time.Time) *entity.IdempotencyKey {
		return &entity.IdempotencyKey{Key: "sale", Scope: "ip:10.0.0.1", ExpiresAt: expires}
	}

	ok, err := store.Reserve(ctx, newKey(time.Now().Add(-time.Second)))
	require.NoError(t, err)
	require.True(t, ok)

	// an expired key is taken over
	ok, err = store.Reserve(ctx, newKey(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Reserve(ctx, newKey(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, "sale", "ip:10.0.0.1"))
	assert.Zero(t, store.Len())

	done := newKey(time.Now().Add(time.Hour))
	_, err = store.Reserve(ctx, done)
	require.NoError(t, err)
	done.ResponseCode = 201
	require.NoError(t, store.Complete(ctx, done))
	require.NoError(t, store.Release(ctx, "sale", "ip:10.0.0.1"))
	assert.Equal(t, 1, store.Len(), "completed keys survive release")

	assert.Error(t, store.Complete(ctx, &entity.IdempotencyKey{Key: "never", Scope: "s", ResponseCode: 201}))
}

func TestIdempotencyKeyFormat(t *testing.T) {
	assert.Equal(t, "idempotency:operator:admin:abc", idempotencyKey("operator:admin", "abc"))
}
