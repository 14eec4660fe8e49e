package stripeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/models"
)

// Client creates Stripe Checkout Sessions over the REST API. The
// processor is opaque to the rest of the service: carts go in, a
// session id and hosted payment page URL come out.
type Client struct {
	secretKey        string
	baseURL          string
	currency         string
	successURL       string
	cancelURL        string
	allowedCountries []string
	httpClient       *http.Client
}

// NewClient creates a new Stripe API client
func NewClient(secretKey, baseURL, currency, successURL, cancelURL string, allowedCountries []string, timeout time.Duration) *Client {
	return &Client{
		secretKey:        secretKey,
		baseURL:          strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		currency:         currency,
		successURL:       successURL,
		cancelURL:        cancelURL,
		allowedCountries: allowedCountries,
		httpClient:       &http.Client{Timeout: timeout},
	}
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateCheckoutSession creates a hosted checkout session for the given
// line items. Line items must be non-empty; unit amounts are already in
// minor currency units.
func (c *Client) CreateCheckoutSession(ctx context.Context, items []models.CheckoutLineItem) (*models.CheckoutSession, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no line items")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	form.Set("payment_method_types[0]", "card")
	form.Set("billing_address_collection", "required")
	form.Set("phone_number_collection[enabled]", "true")
	for i, country := range c.allowedCountries {
		form.Set(fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i), strings.TrimSpace(country))
	}

	for i, item := range items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", c.currency)
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", item.Description)
		}
		if item.Image != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.Image)
		}
		form.Set(prefix+"[price_data][product_data][metadata][product_id]", strconv.FormatInt(item.ProductID, 10))
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}

	orderItems, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order metadata: %w", err)
	}
	form.Set("metadata[order_items]", string(orderItems))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout session request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout session response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		var stripeErr errorResponse
		if err := json.Unmarshal(body, &stripeErr); err == nil && stripeErr.Error.Message != "" {
			return nil, fmt.Errorf("checkout session creation failed: %s", stripeErr.Error.Message)
		}
		return nil, fmt.Errorf("checkout session creation failed: status=%d", res.StatusCode)
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session response: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("checkout session response missing id")
	}

	return &models.CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}
