package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrMalformedToken is returned when a credential cannot be decoded into Claims.
var ErrMalformedToken = errors.New("malformed credential")

// Claims represents the identity carried in the backend's JWT
type Claims struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
	jwt.StandardClaims
}

// DecodeClaims reads the claims of a token without verifying its signature or
// expiry. The signature is the backend's concern; the client only needs the
// identity to pick views.
func DecodeClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMalformedToken
	}
	claims := &Claims{}
	var parser jwt.Parser
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ID == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: missing id or role", ErrMalformedToken)
	}
	return claims, nil
}

// GenerateJWT signs claims with HS256, expiring after ttl.
func GenerateJWT(secret []byte, claims Claims, ttl time.Duration) (string, error) {
	claims.ExpiresAt = time.Now().Add(ttl).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// VerifyJWT parses and validates an HS256 token signed with secret.
func VerifyJWT(secret []byte, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
