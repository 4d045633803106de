package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenLifetime is used when no lifetime is configured.
const DefaultTokenLifetime = 30 * time.Minute

// Claims represents the identity carried by a bearer token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies signed, time-limited bearer tokens.
type JWTService struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
}

// NewJWTService creates a JWT service. Only HMAC signing methods are
// accepted; an unknown algorithm name falls back to HS256.
func NewJWTService(secret, algorithm string, lifetime time.Duration) *JWTService {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		method = jwt.SigningMethodHS256
	}
	if lifetime == 0 {
		lifetime = DefaultTokenLifetime
	}
	return &JWTService{
		secret:   []byte(secret),
		method:   method,
		lifetime: lifetime,
	}
}

// Generate issues a token for the user.
func (s *JWTService) Generate(userID uint, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// Validate verifies a token string and returns its claims.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == 0 || claims.Email == "" {
		return nil, errors.New("missing identity claims")
	}

	return claims, nil
}
