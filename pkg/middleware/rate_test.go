package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/furnistor/pkg/middleware"
)

func hit(t *testing.T, h http.Handler, ip string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitEnforcesMax(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middleware.RateLimit(2, time.Minute)(ok)

	require.Equal(t, http.StatusOK, hit(t, h, "198.51.100.7:1000"))
	require.Equal(t, http.StatusOK, hit(t, h, "198.51.100.7:1000"))
	assert.Equal(t, http.StatusTooManyRequests, hit(t, h, "198.51.100.7:1000"))

	// A different IP gets its own allowance.
	assert.Equal(t, http.StatusOK, hit(t, h, "198.51.100.8:1000"))
}

func TestStackedRateLimitsCountIndependently(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	global := middleware.RateLimit(100, time.Minute)
	login := middleware.RateLimit(2, time.Minute)

	browse := global(ok)
	auth := global(login(ok))

	// Heavy browsing must not consume the login allowance.
	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, hit(t, browse, "203.0.113.9:1000"))
	}
	require.Equal(t, http.StatusOK, hit(t, auth, "203.0.113.9:1000"))
	require.Equal(t, http.StatusOK, hit(t, auth, "203.0.113.9:1000"))

	// The tight limiter still fires on its own count.
	assert.Equal(t, http.StatusTooManyRequests, hit(t, auth, "203.0.113.9:1000"))
}
