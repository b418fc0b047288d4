// Package jwt signs and parses the session cookie. The cookie only
// carries the session id; the actual session state lives server-side.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims embedded in the session cookie.
type SessionClaims struct {
	SessionID            string `json:"sid"`
	jwt.RegisteredClaims        // standard claims (ExpiresAt, IssuedAt)
}

// Maker signs and verifies session cookies.
type Maker interface {
	// GenerateToken signs a cookie value for the given session id.
	GenerateToken(sessionID string) (string, error)
	// ParseToken verifies the cookie value and extracts the claims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl implements Maker with an HS256 secret and a TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker creates a MakerImpl from the secret key and cookie TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// GenerateToken signs a cookie value carrying the session id.
func (j *MakerImpl) GenerateToken(sessionID string) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken verifies the signature and validity of a cookie value and
// returns its claims.
func (j *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
