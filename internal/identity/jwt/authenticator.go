// Package jwt implements session token issuance and validation using signed
// JWTs. Tokens are never stored server-side; validity is purely cryptographic
// plus the embedded expiry.
package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopgrove/marketplace/internal/domain"
	"github.com/shopgrove/marketplace/internal/pkg/httputil"
)

const defaultTokenDuration = time.Hour

// Config contains JWT authenticator configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// Authenticator issues and validates HS256-signed session tokens.
type Authenticator struct {
	config Config
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(config Config) *Authenticator {
	if config.TokenDuration <= 0 {
		config.TokenDuration = defaultTokenDuration
	}
	return &Authenticator{config: config}
}

type sessionClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a token carrying the user id and role.
func (a *Authenticator) GenerateToken(_ context.Context, user *domain.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.config.TokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry and returns the embedded
// identity. A token that verifies but carries no role claim fails with
// httputil.ErrMissingRole.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (string, domain.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(a.config.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", httputil.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return "", "", httputil.ErrInvalidToken
	}

	if claims.Role == "" {
		return "", "", httputil.ErrMissingRole
	}

	return claims.UserID, domain.Role(claims.Role), nil
}
