package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", "")

	token, err := m.GenerateToken("acc-1", "alice@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID())
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("test-secret", "")

	token, err := m.GenerateToken("acc-1", "", -time.Minute)
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", "").GenerateToken("acc-1", "", time.Hour)
	require.NoError(t, err)

	_, err = NewManager("secret-b", "").VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_IssuerMismatch(t *testing.T) {
	token, err := NewManager("s", "https://other.example/auth/v1").GenerateToken("acc-1", "", time.Hour)
	require.NoError(t, err)

	_, err = NewManager("s", "https://auth.example/auth/v1").VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "acc-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("s", "").VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RequiresSubject(t *testing.T) {
	m := NewManager("s", "")
	token, err := m.GenerateToken("", "", time.Hour)
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
