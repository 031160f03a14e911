package http

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// TokenCookie carries the caller's bearer token for plain browser requests
// such as chart images.
const TokenCookie = "finboard_token"

// bearerToken returns the caller credential from the Authorization header,
// falling back to the token cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// templateFuncs are available to every page and partial.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"amount": func(d decimal.Decimal) string { return core.FormatAmount(d) },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(time.DateOnly)
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"negative": func(d decimal.Decimal) bool { return d.IsNegative() },
		"selected": func(a, b string) bool { return a == b },
	}
}
