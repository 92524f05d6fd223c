// Package auth provides concrete implementations of the token verifier.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"beacon/config"
	"beacon/internal/domain/service"
)

// jwtVerifier checks HS256 tokens locally against a shared secret.
type jwtVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewJWTVerifier is the constructor for jwtVerifier.
func NewJWTVerifier(cfg *config.Config) (service.TokenVerifier, error) {
	if cfg.Auth == nil || cfg.Auth.Secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtVerifier{
		secret: []byte(cfg.Auth.Secret),
		now:    time.Now,
	}, nil
}

// Verify never reports an error; a bad token only yields Valid=false.
func (v *jwtVerifier) Verify(_ context.Context, tokenString string) (*service.Verification, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return v.secret, nil
	}, jwt.WithTimeFunc(v.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return &service.Verification{Valid: false}, nil
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return &service.Verification{Valid: false}, nil
	}

	return &service.Verification{
		Valid:  true,
		UserID: subject,
		Roles:  rolesFromClaims(claims),
	}, nil
}

func rolesFromClaims(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"].([]any)
	if !ok {
		return nil
	}

	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if role, ok := r.(string); ok {
			roles = append(roles, role)
		}
	}

	return roles
}
