package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := NewService("segredo", time.Minute, time.Hour)

	tokenString, err := svc.GenerateToken("user-1", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenIsNotAcceptedAsAccessToken(t *testing.T) {
	svc := NewService("segredo", time.Minute, time.Hour)

	refresh, jti, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	_, err = svc.ValidateToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)

	access, err := svc.GenerateToken("user-1", "user")
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredToken(t *testing.T) {
	svc := NewService("segredo", time.Minute, time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tokenString, err := svc.GenerateToken("user-1", "user")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	tokenString, err := NewService("a", time.Minute, time.Hour).GenerateToken("u", "user")
	require.NoError(t, err)

	_, err = NewService("b", time.Minute, time.Hour).ValidateToken(tokenString)
	assert.Error(t, err)
}
