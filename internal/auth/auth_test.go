package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", 15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()

	pair, err := m.GeneratePair(userID, "guest@example.com", RoleUser)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "guest@example.com", claims.Email)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)

	claims, err = m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestJWTManager_SecretsAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)
	pair, err := m.GeneratePair(uuid.New(), "guest@example.com", RoleUser)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Expiry(t *testing.T) {
	m := NewJWTManager("access", "refresh", 15*time.Minute, time.Hour)
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateAccessToken(uuid.New(), "guest@example.com", RoleAdmin)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(14 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	other := NewJWTManager("other", "other", time.Minute, time.Hour)
	foreign, err := other.GenerateAccessToken(uuid.New(), "x@example.com", RoleUser)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: uuid.New()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	}).SignedString([]byte("access"))
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	ok, err := h.Verify(hash, "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(hash, "admin124")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("not-a-bcrypt-hash", "admin123")
	assert.Error(t, err)
}

func TestNewPasswordHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}
