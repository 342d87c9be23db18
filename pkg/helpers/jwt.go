package helpers

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerScheme is the expected prefix of the Authorization header,
// including the trailing space.
const BearerScheme = "Bearer "

var ErrMalformedAuthHeader = errors.New("malformed authorization header")

// BearerToken strips the Bearer scheme from an Authorization header
// value. Headers shorter than the scheme or carrying a different scheme
// are rejected instead of being sliced blindly.
func BearerToken(header string) (string, error) {
	if len(header) <= len(BearerScheme) || !strings.HasPrefix(header, BearerScheme) {
		return "", ErrMalformedAuthHeader
	}
	return header[len(BearerScheme):], nil
}

// JWTManager issues and validates the HS256 tokens that identify a user
// by email.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl}
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateToken(email string) (string, time.Time, error) {
	exp := time.Now().Add(m.TTL)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// ExtractEmail parses the token body and returns the subject email.
func (m *JWTManager) ExtractEmail(tokenStr string) (string, error) {
	claims, err := m.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

func (m *JWTManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
