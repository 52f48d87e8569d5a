package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvoicePayloadRoundTrip(t *testing.T) {
	payload := NewInvoicePayload(12345)

	userID, err := ParseInvoicePayload(payload)
	require.NoError(t, err)
	require.Equal(t, int64(12345), userID)
}

func TestInvoicePayloadsAreUniquePerIssue(t *testing.T) {
	require.NotEqual(t, NewInvoicePayload(1), NewInvoicePayload(1))
}

func TestParseInvoicePayloadRejectsMalformed(t *testing.T) {
	for _, payload := range []string{
		"",
		"enroll",
		"enroll:abc:nonce",
		"other:123:nonce",
		"123:nonce",
	} {
		_, err := ParseInvoicePayload(payload)
		require.Error(t, err, "payload %q", payload)
	}
}
