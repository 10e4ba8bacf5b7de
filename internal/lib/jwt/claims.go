// Package jwt implements generation and parsing of JWT tokens carrying
// custom claim fields for the platform (user id, email, role).
package jwt

import (
	"time"
)

// Maker describes the contract for generating and parsing JWT tokens.
type Maker interface {
	// GenerateToken issues a signed token for the given user.
	GenerateToken(userID int64, email, role string) (string, error)
	// ParseToken verifies a token and returns its custom claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker using an HMAC secret key and a token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker builds a MakerImpl from a secret key and a token lifetime.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
