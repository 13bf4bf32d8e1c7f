package service

import (
	"context"
	"testing"

	"github.com/zrg-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutScript(slug, price, externalID string) models.Script {
	script := testScript(slug, price, "")
	script.ExternalProductID = externalID
	return script
}

func TestBuildCheckoutURL(t *testing.T) {
	svc := NewCheckoutService("https://checkout.tebex.io/checkout/", 0.10, "usd")
	items := []models.LineItem{
		{Script: checkoutScript("economy-job", "20", "5012"), Quantity: 2},
		{Script: checkoutScript("hud", "5", "5020"), Quantity: 1},
	}

	url, err := svc.BuildCheckoutURL(items)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.tebex.io/checkout/5012:2,5020:1", url)
}

func TestBuildCheckoutURLRejectsEmptyCart(t *testing.T) {
	svc := NewCheckoutService("", 0.10, "USD")
	_, err := svc.BuildCheckoutURL(nil)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestBuildCheckoutURLRejectsMissingExternalID(t *testing.T) {
	svc := NewCheckoutService("", 0.10, "USD")
	_, err := svc.BuildCheckoutURL([]models.LineItem{{Script: checkoutScript("hud", "5", ""), Quantity: 1}})
	assert.ErrorIs(t, err, ErrCheckoutItemInvalid)
	assert.Contains(t, err.Error(), "hud")
}

func TestCheckoutCartView(t *testing.T) {
	ctx := context.Background()
	svc := NewCheckoutService("", 0.10, "USD")
	sessions, _ := newTestSessionService(t, 4)
	session, err := sessions.Acquire(ctx, "visitor-1")
	require.NoError(t, err)
	session.Cart.Add(ctx, testScript("economy-job", "20", "15"))
	session.Cart.Add(ctx, testScript("economy-job", "20", "15"))

	view := svc.CartView(session)
	assert.True(t, view.IsOpen)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, "30.00", view.Subtotal.String())
	assert.Equal(t, "3.00", view.Tax.String())
	assert.Equal(t, "33.00", view.Total.String())
}

func TestCheckoutPublicConfig(t *testing.T) {
	cfg := NewCheckoutService("", 0.10, " usd ").PublicConfig()
	assert.Equal(t, "https://checkout.tebex.io/checkout", cfg.CheckoutBaseURL)
	assert.InDelta(t, 0.10, cfg.TaxRate, 1e-9)
	assert.Equal(t, "USD", cfg.Currency)
}
