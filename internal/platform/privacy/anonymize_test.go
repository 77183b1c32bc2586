package privacy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ipv4 loses last octet", "192.168.1.47", "192.168.1.0"},
		{"ipv4 already zeroed", "10.0.0.0", "10.0.0.0"},
		{"ipv6 keeps 48-bit prefix", "2001:db8:85a3::8a2e:370:7334", "2001:0db8:85a3::"},
		{"empty is unknown", "", "unknown"},
		{"unknown passes through", "unknown", "unknown"},
		{"garbage is invalid", "not-an-ip", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnonymizeIP(tt.in))
		})
	}
}

func TestPseudonymousEmail(t *testing.T) {
	first, err := PseudonymousEmail()
	require.NoError(t, err)
	second, err := PseudonymousEmail()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "deleted-"))
	assert.True(t, IsPseudonymousEmail(first))
	assert.NotEqual(t, first, second, "pseudonyms must be unique per call")
	assert.False(t, IsPseudonymousEmail("alice@example.com"))
}
