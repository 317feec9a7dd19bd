package util

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gtu-transit/auth-gateway/internal/domain"
)

type Claims struct {
	UserID int64       `json:"user-id"`
	Email  string      `json:"user-email"`
	Name   string      `json:"user-name"`
	Role   domain.Role `json:"user-role"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager decodes the base64 signing secret once at startup. The raw
// key bytes are treated as opaque material; no rotation is supported.
func NewJWTManager(encodedSecret string, ttl time.Duration) (*JWTManager, error) {
	key, err := base64.StdEncoding.DecodeString(encodedSecret)
	if err != nil {
		return nil, errors.New("jwt secret is not valid base64")
	}
	if len(key) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWTManager{secret: key, ttl: ttl}, nil
}

func (m *JWTManager) Generate(p *domain.Principal) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.ttl)
	claims := Claims{
		UserID: p.ID,
		Email:  p.Email,
		Name:   p.Name,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *JWTManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
