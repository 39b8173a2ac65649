package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/frotalog/frotalog/internal/middleware"
)

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/departures", nil)
	req.RemoteAddr = addr
	return req
}

// TestRateLimiter_BurstThenReject verifies that a client is served up to its
// burst and then receives 429 with the API error body.
func TestRateLimiter_BurstThenReject(t *testing.T) {
	// rate.Limit(0) never refills, so the burst is the whole allowance.
	h := middleware.NewRateLimiter(rate.Limit(0), 2)(trivialHandler)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("10.0.0.1:5000"))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1:5001"))

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "rate_limited", body["code"])
	assert.NotEmpty(t, body["error"])
}

// TestRateLimiter_BucketsArePerIP verifies that one client exhausting its
// bucket does not affect another.
func TestRateLimiter_BucketsArePerIP(t *testing.T) {
	h := middleware.NewRateLimiter(rate.Limit(0), 1)(trivialHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1:5000"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1:5000"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestRateLimiter_BareRemoteAddr covers RemoteAddr values without a port,
// as left by chi's RealIP.
func TestRateLimiter_BareRemoteAddr(t *testing.T) {
	h := middleware.NewRateLimiter(rate.Limit(0), 1)(trivialHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("192.168.1.9"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPRateLimiter_ReusesBucket(t *testing.T) {
	l := middleware.NewIPRateLimiter(rate.Limit(1), 1, time.Minute)

	assert.Same(t, l.Limiter("10.0.0.1"), l.Limiter("10.0.0.1"))
	assert.NotSame(t, l.Limiter("10.0.0.1"), l.Limiter("10.0.0.2"))
}

func TestIPRateLimiter_EvictsIdleBuckets(t *testing.T) {
	l := middleware.NewIPRateLimiter(rate.Limit(0), 1, 50*time.Millisecond)

	first := l.Limiter("10.0.0.1")
	require.True(t, first.Allow())
	l.Limiter("10.0.0.2")
	require.Equal(t, 2, l.Len())

	require.Eventually(t, func() bool { return l.Len() == 0 }, 2*time.Second, 10*time.Millisecond)

	again := l.Limiter("10.0.0.1")
	assert.NotSame(t, first, again)
	assert.True(t, again.Allow(), "a returning client starts with a full bucket")
}

func TestIPRateLimiter_AccessKeepsBucketAlive(t *testing.T) {
	l := middleware.NewIPRateLimiter(rate.Limit(0), 1, 200*time.Millisecond)

	first := l.Limiter("10.0.0.1")
	for range 5 {
		time.Sleep(60 * time.Millisecond)
		require.Same(t, first, l.Limiter("10.0.0.1"))
	}
}
