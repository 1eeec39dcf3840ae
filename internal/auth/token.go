package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"bazaar-backend/internal/apperr"
	"bazaar-backend/internal/models"
)

// Claims is the JWT payload: who the bearer is and which role was baked
// in at issue time.
type Claims struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
	jwt.StandardClaims
}

func IssueToken(secret []byte, u *models.User, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: u.ID.Hex(),
		Role:   u.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(secret []byte, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.Unauthenticated, "unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthenticated, "invalid token", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.New(apperr.Unauthenticated, "invalid token")
	}
	return claims, nil
}
