package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "veriportal/pkg/domain-errors"
)

const testSigningKey = "test-signing-key"

func signToken(t *testing.T, key string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func TestValidateTokenMapsOIDCClaims(t *testing.T) {
	validator := NewJWTValidator(testSigningKey)
	token := signToken(t, testSigningKey, tokenClaims{
		Name:    "Alice Example",
		Picture: "https://cdn.example.com/alice.png",
		Email:   "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "auth0|u1", claims.Principal)
	assert.Equal(t, "Alice Example", claims.DisplayName)
	assert.Equal(t, "https://cdn.example.com/alice.png", claims.AvatarURL)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	validator := NewJWTValidator(testSigningKey)
	token := signToken(t, testSigningKey, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := validator.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	validator := NewJWTValidator(testSigningKey)
	token := signToken(t, "some-other-key", tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := validator.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateTokenRequiresSubject(t *testing.T) {
	validator := NewJWTValidator(testSigningKey)
	token := signToken(t, testSigningKey, tokenClaims{
		Email: "nobody@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := validator.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
