package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by ParseToken for expired tokens.
var ErrTokenExpired = errors.New("token has expired")

// ErrTokenInvalid is returned by ParseToken for malformed or tampered tokens.
var ErrTokenInvalid = errors.New("invalid token")

// IdentityClaims binds a principal's email and username into a signed token.
type IdentityClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the given identity and returns it
// together with the expiry as epoch seconds.
func GenerateToken(secret, email, username string, ttl time.Duration) (string, int64, error) {
	expiresAt := time.Now().Add(ttl)
	claims := &IdentityClaims{
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

// ParseToken validates the token and returns the embedded identity claims.
func ParseToken(secret, tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*IdentityClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
