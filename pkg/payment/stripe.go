// Package payment integrates Stripe Checkout through its REST API.
//
// The flow is two-phase: CreateSession returns a hosted payment page URL the
// frontend redirects to; after the shopper pays, the frontend calls back with
// the session ID and RetrieveSession confirms the payment status before the
// order is persisted.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shashiranjanraj/furnistor/config"
	apphttp "github.com/shashiranjanraj/furnistor/pkg/http"
)

// ErrNotConfigured is returned when STRIPE_SECRET_KEY is missing.
var ErrNotConfigured = errors.New("payment: stripe is not configured")

// LineItem is one purchasable row of a checkout session.
type LineItem struct {
	Name       string
	UnitAmount int64 // minor units (cents)
	Quantity   int
}

// Session mirrors the fields of a Stripe Checkout Session the app reads.
type Session struct {
	ID                string            `json:"id"`
	URL               string            `json:"url"`
	PaymentStatus     string            `json:"payment_status"` // "paid" | "unpaid" | "no_payment_required"
	ClientReferenceID string            `json:"client_reference_id"`
	PaymentIntent     string            `json:"payment_intent"`
	AmountTotal       int64             `json:"amount_total"`
	Currency          string            `json:"currency"`
	Metadata          map[string]string `json:"metadata"`
}

// Paid reports whether the session completed with a captured payment.
func (s *Session) Paid() bool { return s.PaymentStatus == "paid" }

// Ref returns the identifier to dedup orders on: the payment intent when
// present, otherwise the session ID.
func (s *Session) Ref() string {
	if s.PaymentIntent != "" {
		return s.PaymentIntent
	}
	return s.ID
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the Stripe REST API.
type Client struct {
	secret  string
	baseURL string
}

// NewClient builds a Client from STRIPE_SECRET_KEY / STRIPE_API_URL.
func NewClient() *Client {
	return &Client{
		secret:  config.StripeSecret(),
		baseURL: config.StripeAPIURL(),
	}
}

// Configured reports whether a secret key is present.
func (c *Client) Configured() bool { return c.secret != "" }

// CreateSession opens a hosted checkout session. metadata travels opaquely to
// Stripe and comes back verbatim on retrieval; callers encrypt anything
// sensitive before passing it in.
func (c *Client) CreateSession(ctx context.Context, clientReferenceID, currency string, items []LineItem, metadata map[string]string) (*Session, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", clientReferenceID)
	form.Set("success_url", config.FrontendURL()+"/checkout/success?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", config.FrontendURL()+"/checkout/cancelled")

	for i, item := range items {
		p := fmt.Sprintf("line_items[%d]", i)
		form.Set(p+"[price_data][currency]", currency)
		form.Set(p+"[price_data][product_data][name]", item.Name)
		form.Set(p+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(p+"[quantity]", strconv.Itoa(item.Quantity))
	}
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	return c.call(ctx, apphttp.Post(c.baseURL+"/v1/checkout/sessions").Form(form))
}

// RetrieveSession fetches an existing checkout session by ID.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	return c.call(ctx, apphttp.Get(c.baseURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID)))
}

func (c *Client) call(ctx context.Context, req *apphttp.Request) (*Session, error) {
	// Single attempt only. A retried create could open a duplicate hosted
	// session at the processor after a transient network error.
	resp, err := req.
		Bearer(c.secret).
		Timeout(15 * time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, fmt.Errorf("payment: stripe request: %w", err)
	}

	if !resp.OK() {
		var apiErr apiError
		if err := resp.JSON(&apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("payment: stripe API (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("payment: stripe API returned %d", resp.StatusCode)
	}

	var s Session
	if err := resp.JSON(&s); err != nil {
		return nil, fmt.Errorf("payment: decode session: %w", err)
	}
	if s.ID == "" {
		return nil, errors.New("payment: stripe returned an empty session")
	}
	return &s, nil
}
