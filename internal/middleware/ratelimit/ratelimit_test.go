package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_WindowResets(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 2})
	defer rl.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "clients are independent")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.Equal(t, int64(1), rl.GetMetrics().TotalHits)
}

func TestLimiter_CleanupDropsStaleClients(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("1.2.3.4")
	now = now.Add(11 * time.Minute)
	rl.cleanupStaleEntries()

	assert.Equal(t, 0, rl.ActiveClients())
}

func TestMiddleware_OnlyLimitsListedMethods(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	defer rl.Stop()

	h := rl.Middleware(func(r *http.Request) string { return "ip" }, nil, http.MethodPost)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := func(method string) int {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, "/expenses", nil))
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, codes(http.MethodPost))
	assert.Equal(t, http.StatusTooManyRequests, codes(http.MethodPost))
	assert.Equal(t, http.StatusOK, codes(http.MethodGet))
}
