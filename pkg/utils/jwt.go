package utils

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type UserClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ValidateToken parses a bearer token issued by the account surface. Token
// issuance lives outside this service; only validation happens here.
func ValidateToken(tokenString string) (*UserClaims, error) {
	secret := os.Getenv("JWT_SECRET")

	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
