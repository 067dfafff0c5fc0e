package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mealhub/api/internal/config"
	"github.com/mealhub/api/internal/domain"
)

// Claims holds the session token payload.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens. The secret and the
// validity window come from process configuration and never change after
// startup, so tokens are self-contained: no store lookup is needed to
// verify one.
type Provider struct {
	secret []byte
	ttl    time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	return &Provider{secret: cfg.JWTSecret, ttl: cfg.TokenTTL}, nil
}

// Issue mints a token bound to userID, valid from now for the configured window.
func (p *Provider) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify checks the signature and validity window and returns the embedded
// user id. Expiry maps to domain.ErrTokenExpired; any parse or signature
// failure maps to domain.ErrInvalidToken.
func (p *Provider) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.UserID, nil
}
