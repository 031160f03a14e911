package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadersMiddleware_AllowsHTMXSource(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "script-src 'self' https://unpkg.com")
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"), "no HSTS over plain HTTP")
}

func TestDetector_DetectSuspiciousRequest(t *testing.T) {
	d := NewDetector(nil)

	tests := []struct {
		name, method, target, agent string
		want                        bool
	}{
		{"dashboard", http.MethodGet, "/ui/budgets", "Mozilla/5.0", false},
		{"dotenv scan", http.MethodGet, "/.env", "", true},
		{"script in query", http.MethodGet, "/ui/transactions?next=javascript:alert(1)", "", true},
		{"scanner", http.MethodGet, "/", "sqlmap/1.7", true},
		{"trace method", "TRACE", "/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			req.Header.Set("User-Agent", tt.agent)
			assert.Equal(t, tt.want, d.DetectSuspiciousRequest(req))
		})
	}
}

func TestDetector_ExtractClientIP(t *testing.T) {
	d := NewDetector(nil)

	proxied := httptest.NewRequest(http.MethodGet, "/", nil)
	proxied.RemoteAddr = "10.0.0.2:5555"
	proxied.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")
	assert.Equal(t, "203.0.113.9", d.ExtractClientIP(proxied))

	direct := httptest.NewRequest(http.MethodGet, "/", nil)
	direct.RemoteAddr = "198.51.100.7:5555"
	direct.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "198.51.100.7", d.ExtractClientIP(direct), "untrusted peers cannot spoof")
}
