package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/sangkips/supermarket-api/pkg/apperror"
	logx "github.com/sangkips/supermarket-api/pkg/logger"
	"github.com/sangkips/supermarket-api/pkg/utils"
)

// AuthService authenticates the single configured operator
type AuthService struct {
	username     string
	passwordHash string
	jwtManager   *utils.JWTManager
}

// NewAuthService creates a new auth service. passwordHash is a bcrypt hash.
func NewAuthService(username, passwordHash string, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		jwtManager:   jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login checks the operator credentials and issues an access token
func (s *AuthService) Login(_ context.Context, input *LoginInput) (*LoginOutput, error) {
	if s.passwordHash == "" {
		logx.Warn().Msg("login attempted but no operator password hash is configured")
		return nil, apperror.ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(input.Username)), []byte(s.username)) == 1
	passOK := utils.CheckPasswordHash(input.Password, s.passwordHash)
	if !userOK || !passOK {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(s.username)
	if err != nil {
		return nil, apperror.NewAppError(500, "failed to issue token")
	}
	return &LoginOutput{
		Username:    s.username,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(s.jwtManager.Expiry()),
	}, nil
}
