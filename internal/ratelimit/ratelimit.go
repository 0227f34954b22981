package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"
)

type RateLimit interface {
	Allow(addr string) bool
}

type window struct {
	count       int
	windowStart time.Time
}

// FixedWindowLimiter counts requests per remote address in fixed windows.
type FixedWindowLimiter struct {
	maxRequests int
	interval    time.Duration
	requests    map[string]*window
	mutex       sync.Mutex
}

func New(maxRequests int, interval time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		maxRequests: maxRequests,
		interval:    interval,
		requests:    make(map[string]*window),
	}
}

func (rl *FixedWindowLimiter) Allow(addr string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	wd := rl.requests[addr]

	if wd == nil || now.Sub(wd.windowStart) > rl.interval {
		if rl.maxRequests == 0 {
			return false
		}

		rl.requests[addr] = &window{
			count:       1,
			windowStart: now,
		}
		return true
	}

	if wd.count >= rl.maxRequests {
		return false
	}
	wd.count++

	return true
}

// Middleware rejects over-limit clients with 429. The port is stripped from
// RemoteAddr so a client keeps one budget across connections.
func Middleware(limit RateLimit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := r.RemoteAddr
			if host, _, err := net.SplitHostPort(addr); err == nil {
				addr = host
			}

			if !limit.Allow(addr) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "rate_limited"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
