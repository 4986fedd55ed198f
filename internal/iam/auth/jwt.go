// Package auth signs and verifies the bearer tokens issued at login.
// Tokens are HS256 JWTs; validity is recomputed from the signature and the
// expiry claim on every check, there is no server-side token state.
package auth

import (
	"time"

	"github.com/akozlov/custhub/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload signed into a token: the standard registered claims
// plus the account id and a denormalized copy of the username at issuance.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
}

// GenerateToken signs a token for the given account, valid from now for
// validityDuration. Expiry is strict: no leeway is granted on verification.
func GenerateToken(userID, username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   userID,
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns the
// embedded claims. Every failure mode (malformed encoding, wrong signature,
// wrong algorithm, expired) collapses into ErrorInvalidToken so callers
// cannot tell a tampered token from a stale one.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrorInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrorInvalidToken
	}

	return claims, nil
}
