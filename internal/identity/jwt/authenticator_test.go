package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopgrove/marketplace/internal/domain"
	"github.com/shopgrove/marketplace/internal/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret"})

	token, err := auth.GenerateToken(context.Background(), &domain.User{
		ID:   "user-1",
		Role: domain.RoleSeller,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := auth.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, domain.RoleSeller, role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret"})
	other := NewAuthenticator(Config{SecretKey: "other-secret"})

	token, err := auth.GenerateToken(context.Background(), &domain.User{
		ID:   "user-1",
		Role: domain.RoleCustomer,
	})
	require.NoError(t, err)

	_, _, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, httputil.ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	auth := NewAuthenticator(Config{
		SecretKey:     "test-secret",
		TokenDuration: -time.Minute,
	})

	token, err := auth.GenerateToken(context.Background(), &domain.User{
		ID:   "user-1",
		Role: domain.RoleCustomer,
	})
	require.NoError(t, err)

	_, _, err = auth.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, httputil.ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret"})

	_, _, err := auth.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, httputil.ErrInvalidToken)
}

func TestValidateToken_MissingRole(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret"})

	// A token signed with the right key but without a role claim
	now := time.Now()
	claims := sessionClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, _, err = auth.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, httputil.ErrMissingRole)
}

func TestValidateToken_RejectsUnsignedAlgorithm(t *testing.T) {
	auth := NewAuthenticator(Config{SecretKey: "test-secret"})

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		UserID: "user-1",
		Role:   "admin",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = auth.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, httputil.ErrInvalidToken)
}
