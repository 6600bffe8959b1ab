package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims carries the verified user identity under which inventory
// records are partitioned. Token issuance lives with the external auth
// service; this side only parses and verifies.
type IdentityClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func GenerateIdentityToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func ParseIdentityToken(tokenStr string, secret string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*IdentityClaims); ok && token.Valid {
		if claims.UserID == "" {
			claims.UserID = claims.Subject
		}
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
