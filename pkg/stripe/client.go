// Package stripe is a minimal client for the parts of the Stripe HTTP API this
// service uses: creating hosted checkout sessions and verifying webhook
// signatures. It speaks the documented wire format directly so the rest of the
// code can treat the gateway as an opaque collaborator.
package stripe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is the live Stripe API endpoint. Tests point the client at a
// local httptest server instead.
const DefaultBaseURL = "https://api.stripe.com"

// MetadataValueMaxLen is Stripe's documented per-value size limit for session
// metadata. Callers must keep serialized payloads under it; the API rejects
// anything larger.
const MetadataValueMaxLen = 500

// Config holds the gateway credentials and connection settings. The secret
// key is read once at startup and never mutated afterwards.
type Config struct {
	SecretKey string
	BaseURL   string        // defaults to DefaultBaseURL
	Timeout   time.Duration // defaults to 15s; no gateway call blocks past this
}

// Client calls the Stripe API over HTTP.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Stripe API client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// LineItem is one gateway-facing purchase line. UnitAmount is in integer
// minor-currency units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int
}

// CheckoutSessionParams are the inputs for creating a hosted checkout session.
type CheckoutSessionParams struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSession is the gateway's representation of one payment attempt. Only
// the fields this service reads are modeled.
type CheckoutSession struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

// Error is a non-2xx response from the Stripe API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("stripe: request failed with status %d: %s", e.StatusCode, e.Message)
}

// apiError mirrors Stripe's error response envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession creates a one-time-payment hosted checkout session and
// returns the gateway's session handle. The request carries a fresh
// idempotency key so a retried HTTP call cannot create two sessions.
func (c *Client) CreateCheckoutSession(params CheckoutSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout session request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout session response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		message := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &ae) == nil && ae.Error.Message != "" {
			message = ae.Error.Message
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: message}
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session response: %w", err)
	}
	return &session, nil
}
