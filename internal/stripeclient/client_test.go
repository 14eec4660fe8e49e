package stripeclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []models.CheckoutLineItem {
	return []models.CheckoutLineItem{
		{Name: "Air Jordan 4 Retro 'Bred'", UnitAmount: 21000, Quantity: 1, ProductID: 1},
		{Name: "Spare Laces", UnitAmount: 50, Quantity: 2, ProductID: 8},
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotForm map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_abc123","url":"https://checkout.stripe.com/pay/cs_test_abc123"}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_123", srv.URL, "usd",
		"http://localhost:3000/success?session_id={CHECKOUT_SESSION_ID}",
		"http://localhost:3000/cart",
		[]string{"US", "CA"}, 5*time.Second)

	session, err := client.CreateCheckoutSession(context.Background(), testItems())
	require.NoError(t, err)

	assert.Equal(t, "cs_test_abc123", session.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_abc123", session.URL)

	assert.Equal(t, "payment", gotForm["mode"][0])
	assert.Equal(t, "card", gotForm["payment_method_types[0]"][0])
	assert.Equal(t, "usd", gotForm["line_items[0][price_data][currency]"][0])
	assert.Equal(t, "21000", gotForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "2", gotForm["line_items[1][quantity]"][0])
	assert.Equal(t, "US", gotForm["shipping_address_collection[allowed_countries][0]"][0])
	assert.NotEmpty(t, gotForm["metadata[order_items]"][0])
}

func TestCreateCheckoutSessionStripeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid currency: xyz","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := NewClient("sk_test_123", srv.URL, "xyz", "http://s", "http://c", nil, 5*time.Second)

	_, err := client.CreateCheckoutSession(context.Background(), testItems())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestCreateCheckoutSessionEmptyItems(t *testing.T) {
	client := NewClient("sk_test_123", "https://api.stripe.com", "usd", "http://s", "http://c", nil, 5*time.Second)

	_, err := client.CreateCheckoutSession(context.Background(), nil)
	assert.Error(t, err)
}
