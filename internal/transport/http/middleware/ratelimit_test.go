package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRealIP_XForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	assert.Equal(t, "1.2.3.4", realIP(req))
}

func TestRealIP_XRealIP_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-Ip", "9.10.11.12")
	assert.Equal(t, "9.10.11.12", realIP(req))
}

func TestRealIP_RemoteAddr_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	assert.Equal(t, "192.168.1.1", realIP(req))
}

func TestRealIP_XForwardedFor_TakesPrecedenceOverXRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.1.1.1")
	req.Header.Set("X-Real-Ip", "2.2.2.2")
	assert.Equal(t, "1.1.1.1", realIP(req))
}

// limitedRequest runs one request with the given X-Forwarded-For through the
// limiter and returns the status code.
func limitedRequest(rl *RateLimiter, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rr := httptest.NewRecorder()
	rl.Limit(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	return rr.Code
}

func TestLimit_ForwardedCallersGetIndependentBuckets(t *testing.T) {
	// Zero refill rate with burst 1: each caller gets exactly one request.
	rl := NewRateLimiter(rate.Limit(0), 1)

	assert.Equal(t, http.StatusOK, limitedRequest(rl, "1.2.3.4"))
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(rl, "1.2.3.4"))

	// A different forwarded caller is unaffected by the exhausted bucket.
	assert.Equal(t, http.StatusOK, limitedRequest(rl, "5.6.7.8"))
}

func TestLimit_BucketKeyedByFirstForwardedHop(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0), 1)

	// Same originating client through two different proxy chains shares one
	// bucket.
	assert.Equal(t, http.StatusOK, limitedRequest(rl, "1.2.3.4, 9.9.9.9"))
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(rl, "1.2.3.4, 8.8.8.8"))
}
