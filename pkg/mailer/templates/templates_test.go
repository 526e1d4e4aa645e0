package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezshop/shop-api/config"
)

func testConfig() *config.Config {
	return &config.Config{
		AppName:          "shop-api",
		CompanyName:      "Mez Shop",
		CompanyAddress:   "1 Shop Street",
		SupportURL:       "https://example.com/support",
		ResetPasswordURL: "https://example.com/new-password",
		InvoiceURL:       "https://example.com/api/invoices",
	}
}

func TestRender_Welcome(t *testing.T) {
	data := NewWelcomeData(testConfig(), "Ada", "ada@example.com")

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "Ada")
	assert.Contains(t, html, "Ada")
}

func TestRender_PasswordReset(t *testing.T) {
	link := "https://example.com/new-password?token=abc123"
	data := NewPasswordResetData(testConfig(), "Ada", "ada@example.com", link,
		WithExpiresIn(time.Hour),
		WithIP("203.0.113.7"),
		WithUserAgent("test-agent"),
	)

	subject, text, html, err := Render(PasswordReset, data)
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, link)
	assert.Contains(t, html, link)
}

func TestRender_OrderConfirmation(t *testing.T) {
	data := NewOrderConfirmationData(testConfig(), "Ada", "ada@example.com",
		"order-42",
		[]string{"A Book x2 ($12.99)", "A Mug x1 ($8.99)"},
		"$34.97",
	)

	subject, text, html, err := Render(OrderConfirmation, data)
	require.NoError(t, err)
	assert.Contains(t, subject, "order-42")
	assert.Contains(t, text, "A Book x2 ($12.99)")
	assert.Contains(t, text, "$34.97")
	assert.Contains(t, html, "order-42")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", map[string]any{})
	assert.Error(t, err)
}
