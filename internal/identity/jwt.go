package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	dErrors "veriportal/pkg/domain-errors"
)

// tokenClaims mirrors the identity provider's ID-token payload. Standard OIDC
// claim names: sub carries the principal, name/picture/email the profile.
type tokenClaims struct {
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTValidator validates identity-provider tokens and produces Claims. The
// rest of the system never touches raw tokens.
type JWTValidator struct {
	signingKey []byte
}

func NewJWTValidator(signingKey string) *JWTValidator {
	return &JWTValidator{signingKey: []byte(signingKey)}
}

// ValidateToken parses and verifies a bearer token, returning the boundary
// Claims. All failure modes collapse to CodeUnauthorized; token internals are
// never surfaced to clients.
func (v *JWTValidator) ValidateToken(tokenString string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return Claims{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	claims := Claims{
		Principal:   tc.Subject,
		DisplayName: tc.Name,
		AvatarURL:   tc.Picture,
		Email:       tc.Email,
	}
	if err := claims.Validate(); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
