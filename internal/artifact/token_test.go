package artifact

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awd2211/lnkday-privacy/internal/sentinel"
)

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewIssuer("test-signing-key")
	require.NoError(t, err)

	requestID := uuid.New()
	token, err := issuer.Issue(requestID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, requestID, got)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer, err := NewIssuer("test-signing-key")
	require.NoError(t, err)

	token, err := issuer.Issue(uuid.New(), time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrExpired))
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	issuer, err := NewIssuer("key-one")
	require.NoError(t, err)
	other, err := NewIssuer("key-two")
	require.NoError(t, err)

	token, err := issuer.Issue(uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestNewIssuerRequiresKey(t *testing.T) {
	_, err := NewIssuer("")
	assert.Error(t, err)
}
