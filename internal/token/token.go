// Package token creates and verifies the signed identity tokens issued
// at login.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = time.Hour

// ErrInvalidToken is returned by Verify for any token that cannot be
// trusted: malformed input, wrong signing method, bad signature, or an
// elapsed expiration.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by an identity token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the token subject into a user identifier.
func (c Claims) UserID() (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Subject))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

// Codec issues and verifies identity tokens with a process-wide secret.
// Safe for concurrent use; the secret is read-only after construction.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// New constructs a Codec with the default one-hour validity window.
func New(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    defaultTTL,
	}
}

// NewWithTTL constructs a Codec with an explicit validity window.
func NewWithTTL(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue produces a signed token asserting the user identifier and role,
// expiring after the codec's validity window.
func (c *Codec) Issue(userID int, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the signature and expiration of a token and returns its
// claims. Any failure is reported as ErrInvalidToken; Verify never
// panics on malformed input.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	claims := Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
