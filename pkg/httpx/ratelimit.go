package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/foodcodes/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig is a token bucket refilled at Requests per Window.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Burst    int
}

var (
	// LoginLimit guards credential checks against guessing.
	LoginLimit = RateLimitConfig{Requests: 5, Window: time.Minute, Burst: 5}

	// ProfileLimit applies to authenticated profile edits.
	ProfileLimit = RateLimitConfig{Requests: 20, Window: time.Minute, Burst: 20}
)

func (c RateLimitConfig) limit() rate.Limit {
	if c.Requests <= 0 || c.Window <= 0 {
		return rate.Inf
	}
	return rate.Limit(float64(c.Requests) / c.Window.Seconds())
}

// KeyExtractor groups requests that share a bucket.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor uses the first X-Forwarded-For hop, then X-Real-IP, then
// the connection address.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// AccountKeyExtractor uses the session's account id. Empty when anonymous.
func AccountKeyExtractor(r *http.Request) string {
	id, _ := AccountID(r.Context())
	return id
}

// FormFieldKeyExtractor reads a form value from the query or a url-encoded body.
func FormFieldKeyExtractor(field string) KeyExtractor {
	return func(r *http.Request) string {
		if err := r.ParseForm(); err != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(r.FormValue(field)))
	}
}

// CompositeKeyExtractor joins the non-empty keys of every extractor with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, ex := range extractors {
			if k := ex(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, sep)
	}
}

type limiterSet struct {
	cfg RateLimitConfig

	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	lastCleanup time.Time
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Idle limiters have refilled to burst; drop them every few minutes.
	if time.Since(s.lastCleanup) > 5*time.Minute {
		for k, l := range s.limiters {
			if l.Tokens() >= float64(s.cfg.Burst) {
				delete(s.limiters, k)
			}
		}
		s.lastCleanup = time.Now()
	}

	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(s.cfg.limit(), s.cfg.Burst)
		s.limiters[key] = l
	}
	return l
}

// RateLimit rejects requests with 429 once a key has spent its bucket.
// Requests with no key pass through.
func RateLimit(cfg RateLimitConfig, key KeyExtractor) Middleware {
	set := &limiterSet{
		cfg:         cfg,
		limiters:    make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			l := set.get(k)
			if l.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			res := l.Reserve()
			retryAfter := max(int(res.Delay().Seconds()), 1)
			res.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"route", r.Pattern,
				"retry_after", retryAfter,
			)

			WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limit_exceeded",
				"error_description": "Too many requests. Please try again later.",
			})
		})
	}
}
