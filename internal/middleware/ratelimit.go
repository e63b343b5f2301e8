package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cortexai/igs/internal/models"
)

type slidingWindow struct {
	mu        sync.Mutex
	requests  []time.Time
	limit     int
	windowDur time.Duration
}

func (sw *slidingWindow) allow(now time.Time) (remaining int, ok bool) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	cutoff := now.Add(-sw.windowDur)
	valid := sw.requests[:0]
	for _, t := range sw.requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	sw.requests = valid

	if len(sw.requests) >= sw.limit {
		return 0, false
	}
	sw.requests = append(sw.requests, now)
	return sw.limit - len(sw.requests), true
}

func (sw *slidingWindow) idleSince(cutoff time.Time) bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.requests) == 0 || sw.requests[len(sw.requests)-1].Before(cutoff)
}

// RateLimiter keeps one sliding one-minute window per client key.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	limit   int
	window  time.Duration
}

func NewRateLimiter(limitPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*slidingWindow),
		limit:   limitPerMinute,
		window:  time.Minute,
	}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rl.cleanup(time.Now())
		}
	}()
	return rl
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := now.Add(-rl.window)
	for key, sw := range rl.windows {
		if sw.idleSince(cutoff) {
			delete(rl.windows, key)
		}
	}
}

// Allow records a request for key and reports whether it fits in the window.
func (rl *RateLimiter) Allow(key string) (remaining int, ok bool) {
	rl.mu.Lock()
	sw, found := rl.windows[key]
	if !found {
		sw = &slidingWindow{limit: rl.limit, windowDur: rl.window}
		rl.windows[key] = sw
	}
	rl.mu.Unlock()
	return sw.allow(time.Now())
}

// RateLimit limits each client to limitPerMinute requests. Clients are keyed
// by the API key in keyHeader, or by remote IP without the port.
func RateLimit(limitPerMinute int, keyHeader string) func(http.Handler) http.Handler {
	rl := NewRateLimiter(limitPerMinute)
	limit := strconv.Itoa(limitPerMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if keyHeader != "" {
				key = r.Header.Get(keyHeader)
			}
			if key == "" {
				key = clientIP(r.RemoteAddr)
			}

			remaining, ok := rl.Allow(key)
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				w.Header().Set("Retry-After", "60")
				models.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
