package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleclinic/rtc/internal/domain"
)

func signToken(t *testing.T, secret, userID, role string, expiry time.Duration) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
		UserID: userID,
		Role:   role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyValidToken(t *testing.T) {
	v := NewHMACVerifier("secret")
	token := signToken(t, "secret", "u1", domain.RoleDoctor, time.Hour)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, domain.RoleDoctor, id.Role)
}

func TestVerifyDefaultsMissingRoleToGuest(t *testing.T) {
	v := NewHMACVerifier("secret")
	token := signToken(t, "secret", "u1", "", time.Hour)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, id.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := NewHMACVerifier("secret")
	token := signToken(t, "other", "u1", domain.RolePatient, time.Hour)

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := NewHMACVerifier("secret")
	token := signToken(t, "secret", "u1", domain.RolePatient, -time.Hour)

	_, err := v.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsEmptySubject(t *testing.T) {
	v := NewHMACVerifier("secret")
	token := signToken(t, "secret", "", domain.RolePatient, time.Hour)

	_, err := v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := NewHMACVerifier("secret")
	_, err := v.Verify("not-a-token")
	assert.Error(t, err)
}
