package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

type claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid"`
	TokenKind string `json:"kind"`
}

func (s *Service) issueToken(userID uuid.UUID, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID.String(),
		TokenKind: kind,
	})

	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates an HS256 token of the given kind and returns the
// embedded user id.
func VerifyToken(tokenStr, secret, kind string) (uuid.UUID, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("auth: invalid token")
	}
	if c.TokenKind != kind {
		return uuid.Nil, errors.New("auth: wrong token kind")
	}

	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth: token subject: %w", err)
	}
	return userID, nil
}

// VerifyAccessToken is the middleware entry point.
func VerifyAccessToken(tokenStr, secret string) (uuid.UUID, error) {
	return VerifyToken(tokenStr, secret, tokenAccess)
}
