// Package auth verifies identity tokens issued by the external identity
// provider and mints equivalent tokens for development and tests.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified caller. ID is the provider's subject and the
// primary key of the caller's profile.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Claims are the identity token claims: the standard set plus the optional
// profile hints used when a profile is bootstrapped.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// GenerateToken signs an HS256 identity token for id valid for validityDuration.
func GenerateToken(id Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Email:     id.Email,
		Name:      id.DisplayName,
		AvatarURL: id.AvatarURL,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseIdentity verifies tokenString and returns the identity it carries.
// Expired tokens yield common.ErrTokenExpired; any other verification
// failure, or a token without a subject, yields common.ErrInvalidToken.
func ParseIdentity(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		AvatarURL:   claims.AvatarURL,
	}, nil
}
