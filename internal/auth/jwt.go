// Package auth validates bearer tokens and resolves caller identities.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vendstack/barkeep/internal/config"
	"github.com/vendstack/barkeep/internal/domain"
)

// Claims is the token payload issued by the SSO gateway.
type Claims struct {
	PreferredUsername string   `json:"preferred_username"`
	Name              string   `json:"name"`
	Groups            []string `json:"groups"`
	DrinkBalance      int64    `json:"drinkBalance"`
	jwt.RegisteredClaims
}

// Validator validates HS256-signed bearer tokens.
type Validator struct {
	secret []byte
	issuer string
}

// NewValidator creates a Validator from auth configuration.
func NewValidator(cfg config.AuthConfig) *Validator {
	return &Validator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
	}
}

// ValidateToken parses and verifies a token, returning the caller identity.
// Any verification failure maps to domain.ErrUnauthorized.
func (v *Validator) ValidateToken(_ context.Context, token string) (*Identity, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", domain.ErrUnauthorized)
	}
	if !parsed.Valid || claims.PreferredUsername == "" {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}

	return &Identity{
		Username:      claims.PreferredUsername,
		DisplayName:   claims.Name,
		Groups:        claims.Groups,
		BalanceAtAuth: claims.DrinkBalance,
	}, nil
}
