// Package artifact mints and verifies download tokens for export bundles.
// A token is a signed claim that a given request's bundle may be downloaded
// until its expiry; the storage backend behind the download endpoint is an
// external concern.
package artifact

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/sentinel"
)

// Issuer signs and verifies download tokens.
type Issuer struct {
	key    []byte
	issuer string
}

const tokenIssuer = "lnkday-privacy"

// NewIssuer constructs a token issuer with the given signing key.
func NewIssuer(key string) (*Issuer, error) {
	if key == "" {
		return nil, fmt.Errorf("signing key is required")
	}
	return &Issuer{key: []byte(key), issuer: tokenIssuer}, nil
}

// Issue mints a signed token for the request's download artifact. The token
// is opaque to clients and self-expires at expiresAt.
func (i *Issuer) Issue(requestID uuid.UUID, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   requestID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign download token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns the request id it
// was minted for. Expired tokens return sentinel.ErrExpired.
func (i *Issuer) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return i.key, nil
		},
		jwt.WithIssuer(i.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, sentinel.ErrExpired
		}
		return uuid.Nil, fmt.Errorf("parse download token: %w", err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid download token")
	}
	requestID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject: %w", err)
	}
	return requestID, nil
}
