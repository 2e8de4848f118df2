// Package auth issues the signed cookie that identifies an anonymous client.
// There are no accounts; the token only ties trip history to a browser.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-wander/pkg/logger"
)

const issuer = "wander"

type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

type ClientTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewClientTokens(secret string, ttl time.Duration) *ClientTokens {
	return &ClientTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long an issued token stays valid.
func (a *ClientTokens) TTL() time.Duration { return a.ttl }

func (a *ClientTokens) Issue(clientID uuid.UUID) (string, error) {
	now := a.now()
	claims := &Claims{
		ClientID: clientID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		if logger.Log != nil {
			logger.Log.Error("Failed to sign client token", zap.Error(err))
		}
		return "", err
	}

	return tokenString, nil
}

func (a *ClientTokens) Validate(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(a.now))
	if err != nil {
		return uuid.Nil, err
	}

	if !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}

	id, err := uuid.Parse(claims.ClientID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid client id in token: %w", err)
	}
	return id, nil
}
