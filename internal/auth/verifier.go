// Package auth verifies bearer credentials handed over by the HTTP
// layer. The realtime core consumes the resulting identity as an
// opaque input and never re-verifies it.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teleclinic/rtc/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type Verifier interface {
	Verify(token string) (domain.Identity, error)
}

// HMACVerifier validates tokens signed with a shared secret, the
// scheme the appointment API issues session tokens with.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(token string) (domain.Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return domain.Identity{}, ErrInvalidToken
	}
	role := claims.Role
	if role == "" {
		role = domain.RoleGuest
	}
	return domain.Identity{UserID: claims.UserID, Role: role}, nil
}
