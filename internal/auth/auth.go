// Package auth issues and verifies the signed session tokens that tie a
// WebSocket connection to a seated player, so a dropped connection can
// resume its seat in a running match.
package auth

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// sessionTTL bounds how long a dropped player may resume a seat.
const sessionTTL = 24 * time.Hour

// SessionClaims bind a user identity to the match they are seated in.
type SessionClaims struct {
	UserID  uuid.UUID `json:"uid"`
	MatchID uuid.UUID `json:"mid"`
	Name    string    `json:"name"`
	jwt.RegisteredClaims
}

// NewSessionToken signs a token for the seated user.
func NewSessionToken(secret []byte, userID, matchID uuid.UUID, name string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:  userID,
		MatchID: matchID,
		Name:    name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey(secret))
}

// ParseSessionToken verifies the signature and expiry and returns the
// embedded claims.
func ParseSessionToken(secret []byte, token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return signingKey(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("auth: invalid session token: %w", err)
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("auth: unexpected claims shape")
	}
	return claims, nil
}

// signingKey derives the fixed-size HMAC key from the configured secret,
// whatever its length.
func signingKey(secret []byte) []byte {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte("session-token")), key); err != nil {
		// Cannot fail for a single-block output size.
		panic(err)
	}
	return key
}
