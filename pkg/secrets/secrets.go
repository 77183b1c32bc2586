package secrets

import (
	"crypto/rand"
	"encoding/base64"

	dErrors "github.com/awd2211/lnkday-privacy/pkg/domain-errors"
)

// Generate creates a cryptographically secure random token.
// Returns a base64-encoded string suitable for pseudonymous identifiers.
func Generate(numBytes int) (string, error) {
	if numBytes <= 0 {
		numBytes = 32
	}
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate secret")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
