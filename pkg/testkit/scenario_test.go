package testkit_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/furnistor/pkg/testkit"
)

// testHandler is a tiny http.Handler powering the testkit self-tests.
// In real tests, use the full route table handler instead.
var testHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/health":
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`)) //nolint:errcheck
	}
})

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_HealthCheck(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "health_check.json", `{
		"name": "Health Check",
		"requestMethod": "GET",
		"requestUrl": "/health",
		"expectedCode": 200
	}`)

	testkit.Run(t, testHandler, path)
}

func TestLoadScenario_MockSteps(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "checkout.json", `{
		"name": "Checkout - Card Session + Confirmation Email",
		"requestMethod": "POST",
		"requestUrl": "/api/checkout/session",
		"expectedCode": 201,
		"isMockRequired": true,
		"netUtilMockStep": [
			{
				"method": "httprequest",
				"isMock": true,
				"matchUrl": "https://api.stripe.com/v1/checkout/sessions",
				"returnData": {"statusCode": 200, "body": "eyJpZCI6ImNzX3Rlc3QifQ=="}
			},
			{
				"method": "sendmail",
				"isMock": true,
				"returnData": {}
			}
		]
	}`)

	mailer := testkit.NewFuncMocker("sendmail")
	mailer.Mock().On("Intercept", mock.AnythingOfType("[]uint8")).Return(nil)
	testkit.RegisterMocker("sendmail", mailer)

	s, err := testkit.LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "Checkout - Card Session + Confirmation Email", s.Name)
	assert.Equal(t, "POST", s.RequestMethod)
	assert.Equal(t, 201, s.ExpectedCode)
	assert.True(t, s.IsMockRequired)
	require.Len(t, s.NetUtilMockStep, 2)

	httpStep := s.NetUtilMockStep[0]
	assert.Equal(t, "httprequest", httpStep.Method)
	assert.True(t, httpStep.IsMock)
	assert.Equal(t, "https://api.stripe.com/v1/checkout/sessions", httpStep.MatchURL)
	assert.NotEmpty(t, httpStep.ReturnData.Body)

	mailStep := s.NetUtilMockStep[1]
	assert.Equal(t, "sendmail", mailStep.Method)
	assert.True(t, mailStep.IsMock)
}

func TestLoadScenario_ExpectedStatusCodeAlias(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "alias.json", `{
		"name": "Alias",
		"requestUrl": "/health",
		"expectedStatusCode": 204
	}`)

	s, err := testkit.LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, 204, s.ExpectedCode)
	assert.Equal(t, "GET", s.RequestMethod)
}

func TestMockTransport_URLMatching(t *testing.T) {
	s := &testkit.Scenario{
		Name:           "mock transport test",
		IsMockRequired: true,
		ExpectedCode:   200,
		RequestURL:     "/anything",
		RequestMethod:  "GET",
		NetUtilMockStep: []testkit.MockStep{
			{
				Method:   "httprequest",
				IsMock:   true,
				MatchURL: "https://api.stripe.com/",
				ReturnData: testkit.MockReturnData{
					StatusCode: 200,
					// base64(`{"ok":true}`)
					Body: "eyJvayI6dHJ1ZX0=",
				},
			},
		},
	}

	mt := testkit.NewMockTransport(s)

	req := httptest.NewRequest(http.MethodGet, "https://api.stripe.com/v1/checkout/sessions/cs_1", nil)
	resp, err := mt.RoundTrip(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, mt.AssertAllCalled())
}

func TestMockTransport_UnmatchedCallFails(t *testing.T) {
	s := &testkit.Scenario{
		Name:           "unmatched mock",
		IsMockRequired: true,
		ExpectedCode:   200,
		RequestURL:     "/anything",
		RequestMethod:  "GET",
		NetUtilMockStep: []testkit.MockStep{
			{
				Method:     "httprequest",
				IsMock:     true,
				MatchURL:   "https://api.stripe.com/",
				ReturnData: testkit.MockReturnData{StatusCode: 200},
			},
		},
	}

	mt := testkit.NewMockTransport(s)

	req := httptest.NewRequest(http.MethodGet, "https://unexpected.example.com/api", nil)
	_, err := mt.RoundTrip(req)

	assert.Error(t, err)
}

func TestAssertJSONBody(t *testing.T) {
	s := &testkit.Scenario{Name: "json assert test", ExpectedCode: 200}

	// key order and whitespace must not matter
	expected := []byte(`{"title":"Oak Coffee Table","price":249.99}`)
	actual := []byte(`{"price":  249.99, "title": "Oak Coffee Table"}`)
	testkit.AssertJSONBody(t, s, expected, actual)
}
