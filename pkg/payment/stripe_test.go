package payment

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/shashiranjanraj/furnistor/pkg/http"
	"github.com/shashiranjanraj/furnistor/pkg/testkit"
)

const stripeBase = "https://stripe.test"

// mockStripe intercepts outgoing calls to the fake Stripe base URL and
// returns the given JSON body instead.
func mockStripe(t *testing.T, statusCode int, body string) *testkit.MockTransport {
	t.Helper()

	s := &testkit.Scenario{
		IsMockRequired: true,
		NetUtilMockStep: []testkit.MockStep{{
			Method:   "httprequest",
			IsMock:   true,
			MatchURL: stripeBase + "/v1/checkout/sessions",
			ReturnData: testkit.MockReturnData{
				StatusCode: statusCode,
				Body:       base64.StdEncoding.EncodeToString([]byte(body)),
			},
		}},
	}

	mt := testkit.NewMockTransport(s)
	apphttp.DefaultClient.Transport = mt
	t.Cleanup(apphttp.ResetTransport)
	return mt
}

func TestCreateSessionParsesResponse(t *testing.T) {
	mt := mockStripe(t, http.StatusOK,
		`{"id":"cs_test_1","url":"https://checkout.stripe.test/pay/cs_test_1","payment_status":"unpaid"}`)

	c := &Client{secret: "sk_test", baseURL: stripeBase}
	sess, err := c.CreateSession(context.Background(), "user-1", "usd",
		[]LineItem{{Name: "Nordlys sofa", UnitAmount: 129900, Quantity: 1}},
		map[string]string{"cart": "opaque"})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.test/pay/cs_test_1", sess.URL)
	assert.False(t, sess.Paid())
	assert.Empty(t, mt.AssertAllCalled())
}

func TestRetrieveSessionPaid(t *testing.T) {
	mockStripe(t, http.StatusOK,
		`{"id":"cs_test_2","payment_status":"paid","payment_intent":"pi_42","client_reference_id":"user-1"}`)

	c := &Client{secret: "sk_test", baseURL: stripeBase}
	sess, err := c.RetrieveSession(context.Background(), "cs_test_2")
	require.NoError(t, err)

	assert.True(t, sess.Paid())
	assert.Equal(t, "pi_42", sess.Ref(), "dedup key prefers the payment intent")
	assert.Equal(t, "user-1", sess.ClientReferenceID)
}

func TestStripeErrorIsSurfaced(t *testing.T) {
	mockStripe(t, http.StatusPaymentRequired,
		`{"error":{"type":"card_error","message":"Your card was declined."}}`)

	c := &Client{secret: "sk_test", baseURL: stripeBase}
	_, err := c.RetrieveSession(context.Background(), "cs_test_3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

// failingTransport counts attempts and fails each one at the wire.
type failingTransport struct {
	calls int32
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	atomic.AddInt32(&f.calls, 1)
	return nil, errors.New("connection reset")
}

func TestCreateSessionDoesNotRetry(t *testing.T) {
	ft := &failingTransport{}
	apphttp.DefaultClient.Transport = ft
	t.Cleanup(apphttp.ResetTransport)

	c := &Client{secret: "sk_test", baseURL: stripeBase}
	_, err := c.CreateSession(context.Background(), "user-1", "usd",
		[]LineItem{{Name: "Nordlys sofa", UnitAmount: 129900, Quantity: 1}}, nil)
	require.Error(t, err)

	// A second attempt could open a duplicate hosted session at the processor.
	assert.EqualValues(t, 1, atomic.LoadInt32(&ft.calls))
}
