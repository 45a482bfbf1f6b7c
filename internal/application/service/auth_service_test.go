package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/supermarket-api/pkg/apperror"
	"github.com/sangkips/supermarket-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("till-secret")
	require.NoError(t, err)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService("cashier", hash, jwtManager)

	out, err := svc.Login(context.Background(), &LoginInput{Username: " cashier ", Password: "till-secret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, "cashier", out.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), out.ExpiresAt, time.Minute)

	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "cashier", claims.Username)

	_, err = svc.Login(context.Background(), &LoginInput{Username: "cashier", Password: "wrong"})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
	_, err = svc.Login(context.Background(), &LoginInput{Username: "manager", Password: "till-secret"})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
}

func TestLogin_NoHashConfigured(t *testing.T) {
	svc := NewAuthService("cashier", "", utils.NewJWTManager("s", time.Hour))

	_, err := svc.Login(context.Background(), &LoginInput{Username: "cashier", Password: ""})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
}
