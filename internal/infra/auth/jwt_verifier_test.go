package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beacon/config"
)

const testSecret = "test_secret_key_very_long_for_testing"

func newJWTConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{Mode: "jwt", Secret: testSecret},
	}
}

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestJWTVerifier_ValidToken(t *testing.T) {
	verifier, err := NewJWTVerifier(newJWTConfig())
	require.NoError(t, err)

	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   "user-42",
		"roles": []string{"user", "admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	result, err := verifier.Verify(context.Background(), token)
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "user-42", result.UserID)
	assert.Equal(t, []string{"user", "admin"}, result.Roles)
}

func TestJWTVerifier_InvalidTokens(t *testing.T) {
	verifier, err := NewJWTVerifier(newJWTConfig())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "malformed",
			token: "clearly-not-a-jwt-token-format",
		},
		{
			name: "expired",
			token: signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"sub": "user-42",
				"exp": time.Now().Add(-time.Minute).Unix(),
			}),
		},
		{
			name: "wrong secret",
			token: signToken(t, jwt.SigningMethodHS256, "another-secret", jwt.MapClaims{
				"sub": "user-42",
			}),
		},
		{
			name: "missing subject",
			token: signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name: "unexpected algorithm",
			token: signToken(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{
				"sub": "user-42",
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := verifier.Verify(context.Background(), tt.token)
			assert.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Empty(t, result.UserID)
		})
	}
}

func TestNewJWTVerifier_RequiresSecret(t *testing.T) {
	_, err := NewJWTVerifier(&config.Config{Auth: &config.AuthConfig{Mode: "jwt"}})
	assert.Error(t, err)
}
