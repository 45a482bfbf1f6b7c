package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBillID(t *testing.T) {
	re := regexp.MustCompile(`^[0-9A-F]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewBillID()
		assert.Regexp(t, re, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 95)
}

func TestNewProductID(t *testing.T) {
	id := NewProductID()
	assert.True(t, strings.HasPrefix(id, "PROD-"))
	assert.Len(t, id, len("PROD-")+8)
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.GenerateAccessToken("cashier")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cashier", claims.Username)
	assert.Equal(t, time.Hour, m.Expiry())
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.GenerateAccessToken("cashier")
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	expired := NewJWTManager("secret", -time.Minute)
	old, err := expired.GenerateAccessToken("cashier")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(old)
	assert.Error(t, err)

	_, err = m.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("till-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("till-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
