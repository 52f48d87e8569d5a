package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const invoicePayloadPrefix = "enroll"

// NewInvoicePayload builds the scoping payload attached to a provider
// invoice. The nonce keeps payloads unique across restarts of the same user's
// flow so a stale confirmation cannot be confused with a fresh one.
func NewInvoicePayload(userID int64) string {
	return fmt.Sprintf("%s:%d:%s", invoicePayloadPrefix, userID, uuid.NewString())
}

// ParseInvoicePayload recovers the user ID a provider confirmation belongs to.
func ParseInvoicePayload(payload string) (int64, error) {
	parts := strings.SplitN(payload, ":", 3)
	if len(parts) != 3 || parts[0] != invoicePayloadPrefix {
		return 0, fmt.Errorf("malformed invoice payload %q", payload)
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed invoice payload %q: %w", payload, err)
	}
	return userID, nil
}
