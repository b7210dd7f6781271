package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/config"
)

func testUtil() *JWTUtil {
	return NewJWTUtil(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 24,
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	j := testUtil()
	cafeID := uint(7)

	token, err := j.GenerateToken(42, "owner@corner-brew.test", "admin", &cafeID, "corner-brew")
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "owner@corner-brew.test", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.CafeID)
	assert.Equal(t, uint(7), *claims.CafeID)
	assert.Equal(t, "corner-brew", claims.CafeSlug)
	assert.Nil(t, claims.ImpersonatorID)
}

func TestValidateToken_ExpiredWithinSkewAccepted(t *testing.T) {
	j := testUtil()

	// Expired nine minutes ago, inside the ten-minute tolerance
	token, err := j.GenerateTokenWithExpiry(1, "a@b.test", "user", nil, "", time.Now().Add(-9*time.Minute))
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
}

func TestValidateToken_ExpiredBeyondSkewRejected(t *testing.T) {
	j := testUtil()

	token, err := j.GenerateTokenWithExpiry(1, "a@b.test", "user", nil, "", time.Now().Add(-12*time.Minute))
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_MalformedRejected(t *testing.T) {
	j := testUtil()

	_, err := j.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidateToken_WrongKeyRejected(t *testing.T) {
	other := NewJWTUtil(&config.JWTConfig{SigningKey: "different-key", ExpirationHours: 24})
	token, err := other.GenerateToken(1, "a@b.test", "user", nil, "")
	require.NoError(t, err)

	_, err = testUtil().ValidateToken(token)
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestGenerateImpersonationToken(t *testing.T) {
	j := testUtil()

	token, err := j.GenerateImpersonationToken(3, "support@platform.test", 9, "corner-brew")
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	require.NotNil(t, claims.ImpersonatorID)
	assert.Equal(t, uint(3), *claims.ImpersonatorID)
	require.NotNil(t, claims.CafeID)
	assert.Equal(t, uint(9), *claims.CafeID)
	assert.Equal(t, "corner-brew", claims.CafeSlug)
}
