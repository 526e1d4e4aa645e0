package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceToken_RoundTrip(t *testing.T) {
	m := NewInvoiceTokenManager("test-secret", 15*time.Minute)

	tok, exp, err := m.Generate("order-1", "user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "order-1", claims.OrderID)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestInvoiceToken_TamperRejected(t *testing.T) {
	m := NewInvoiceTokenManager("test-secret", 15*time.Minute)
	tok, _, err := m.Generate("order-1", "user-1")
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = m.Parse(tampered)
	assert.Error(t, err)
}

func TestInvoiceToken_WrongSecretRejected(t *testing.T) {
	tok, _, err := NewInvoiceTokenManager("secret-a", time.Minute).Generate("o", "u")
	require.NoError(t, err)

	_, err = NewInvoiceTokenManager("secret-b", time.Minute).Parse(tok)
	assert.Error(t, err)
}

func TestInvoiceToken_Expired(t *testing.T) {
	m := NewInvoiceTokenManager("test-secret", -time.Minute)
	tok, _, err := m.Generate("order-1", "user-1")
	require.NoError(t, err)

	_, err = m.Parse(tok)
	assert.Error(t, err)
}
