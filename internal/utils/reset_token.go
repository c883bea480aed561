package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrResetTokenExpired = errors.New("reset token expired")
	ErrResetTokenInvalid = errors.New("reset token invalid")
)

const resetPurpose = "password_reset"

// ResetClaims is the payload of a password-reset link token: a signed,
// time-limited opaque string that encodes the account email. The jti is used
// to make each token single-use.
type ResetClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func SignResetToken(secret, email string, ttlSec int) (string, error) {
	now := time.Now()
	claims := ResetClaims{
		Email:   email,
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlSec) * time.Second)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyResetToken checks signature, expiry and purpose, and returns the
// claims so callers can look up the user and mark the jti as used.
func VerifyResetToken(secret, token string) (*ResetClaims, error) {
	var claims ResetClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrResetTokenExpired
		}
		return nil, ErrResetTokenInvalid
	}
	if !parsed.Valid || claims.Purpose != resetPurpose || claims.Email == "" {
		return nil, ErrResetTokenInvalid
	}
	return &claims, nil
}
