// Package privacy provides utilities for handling personally identifiable
// information (PII) during anonymization and audit logging.
package privacy

import (
	"fmt"
	"net"
	"strings"

	"github.com/awd2211/lnkday-privacy/pkg/secrets"
)

// DeletedDisplayName replaces a user's display name during account anonymization.
const DeletedDisplayName = "Deleted User"

// pseudonymDomain is reserved (RFC 2606) so anonymized addresses can never
// route mail to a real mailbox.
const pseudonymDomain = "anonymized.invalid"

// PseudonymousEmail returns a random, clearly-marked replacement address for
// an anonymized account. The result is unique per call and carries no trace
// of the original address.
func PseudonymousEmail() (string, error) {
	token, err := secrets.Generate(12)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("deleted-%s@%s", strings.ToLower(token), pseudonymDomain), nil
}

// IsPseudonymousEmail reports whether an address was produced by
// PseudonymousEmail. Used by the deletion pipeline's idempotency check.
func IsPseudonymousEmail(email string) bool {
	return strings.HasSuffix(email, "@"+pseudonymDomain)
}

// AnonymizeIP truncates an IP address to remove the host-identifying portion.
//
// IPv4 addresses lose the last octet ("192.168.1.47" -> "192.168.1.0"),
// masking to a /24 network. IPv6 addresses keep only the /48 prefix.
// Returns "invalid" for unparseable addresses and "unknown" for empty input.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	// IPv4, including IPv4-mapped IPv6
	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	// IPv6: keep only the first 6 bytes (/48 prefix)
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}
