package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/foodcodes/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIPKeyExtractor(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"remote addr", nil, "192.168.1.1"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.1, 192.168.1.1"}, "203.0.113.1"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.2"}, "203.0.113.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, httpx.IPKeyExtractor(req))
		})
	}
}

func TestFormFieldKeyExtractor(t *testing.T) {
	form := url.Values{"username": {" Bob "}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	require.Equal(t, "bob", httpx.FormFieldKeyExtractor("username")(req))
	require.Empty(t, httpx.FormFieldKeyExtractor("missing")(req))
}

func TestCompositeKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?username=alice", nil)
	req.RemoteAddr = "10.0.0.1:1"

	key := httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.AccountKeyExtractor, httpx.FormFieldKeyExtractor("username"))
	require.Equal(t, "10.0.0.1:alice", key(req))

	ctx := context.WithValue(req.Context(), httpx.CtxKeyAccountID, "acc-1")
	require.Equal(t, "10.0.0.1:acc-1:alice", key(req.WithContext(ctx)))
}

func TestRateLimit(t *testing.T) {
	cfg := httpx.RateLimitConfig{Requests: 2, Window: time.Hour, Burst: 2}
	h := httpx.RateLimit(cfg, httpx.IPKeyExtractor)(okHandler())

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	require.Equal(t, http.StatusOK, do("10.0.0.1").Code)

	rec := do("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")

	// Other clients keep their own bucket.
	require.Equal(t, http.StatusOK, do("10.0.0.2").Code)
}

func TestRateLimitPassesWithoutKey(t *testing.T) {
	cfg := httpx.RateLimitConfig{Requests: 1, Window: time.Hour, Burst: 1}
	h := httpx.RateLimit(cfg, httpx.AccountKeyExtractor)(okHandler())

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
